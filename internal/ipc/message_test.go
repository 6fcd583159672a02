package ipc

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := ShowToast("hi", "", 1000, StyleInfo)
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Fatal("expected newline-terminated encoding")
	}
	got, err := Decode(data[:len(data)-1])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != TypeShowToast || got.Message != "hi" || got.DurationMS != 1000 || got.Style != StyleInfo {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestDecodeUnknownVariantDoesNotError(t *testing.T) {
	// Per §4.1, unknown variants must parse, not fail — the dispatcher (not
	// Decode) is responsible for rejecting them.
	m, err := Decode([]byte(`{"type":"some_future_message","extra_field":42}`))
	if err != nil {
		t.Fatalf("expected unknown variant to decode without error, got %v", err)
	}
	if m.Type != "some_future_message" {
		t.Errorf("type = %q", m.Type)
	}
}

func TestDecodeMalformedJSONErrors(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatal("expected parse error on malformed JSON")
	}
}

func TestAchievementInfoOptionalFieldsOmitted(t *testing.T) {
	data, err := Encode(Message{
		Type: TypeRaAchievementList,
		Achievements: []AchievementInfo{
			{ID: 1, Title: "First Steps", Points: 10},
		},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(data)
	for _, forbidden := range []string{"rarity_percent", "earned_at", "progress", "earned_hardcore"} {
		if contains(s, forbidden) {
			t.Errorf("expected %q to be omitted when unset, got %s", forbidden, s)
		}
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && indexOf(s, sub) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
