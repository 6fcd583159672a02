package overlay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

type fakeQuit struct {
	called bool
	err    error
}

func (f *fakeQuit) SignalQuit() error {
	f.called = true
	return f.err
}

func newTestState(t *testing.T) (*State, *fakeQuit) {
	t.Helper()
	q := &fakeQuit{}
	pt := NewPlaytimeTracker(filepath.Join(t.TempDir(), "playtime.json"))
	return NewState(q, pt, activitylog.Nop()), q
}

func TestToggleVisibilityResetsToMain(t *testing.T) {
	s, _ := newTestState(t)
	s.CurrentScreen = ipc.ScreenAchievements
	s.SelectedOption = 3
	s.ToggleVisibility()
	if !s.Visible {
		t.Fatalf("expected visible after toggle from hidden")
	}
	if s.CurrentScreen != ipc.ScreenMain || s.SelectedOption != 0 {
		t.Fatalf("expected reset to Main/0, got %v/%d", s.CurrentScreen, s.SelectedOption)
	}
	s.ToggleVisibility()
	if s.Visible {
		t.Fatalf("expected hidden after second toggle")
	}
}

func TestQuitFlowDefaultsToCancel(t *testing.T) {
	s, q := newTestState(t)
	s.Visible = true
	s.CurrentScreen = ipc.ScreenMain
	s.SelectedOption = mainOptQuit
	s.HandleInput(InputSelect)
	if s.CurrentScreen != ipc.ScreenQuitConfirm || s.QuitSelection != quitButtonCancel {
		t.Fatalf("expected QuitConfirm with Cancel selected by default, got screen=%v selection=%d", s.CurrentScreen, s.QuitSelection)
	}
	s.HandleInput(InputSelect)
	if q.called {
		t.Fatalf("selecting default Cancel must not signal quit")
	}
	if s.CurrentScreen != ipc.ScreenMain || s.SelectedOption != mainOptQuit {
		t.Fatalf("expected Main with Quit re-selected, got %v/%d", s.CurrentScreen, s.SelectedOption)
	}
}

func TestQuitFlowWritesSignalOnSelect(t *testing.T) {
	s, q := newTestState(t)
	s.Visible = true
	s.CurrentScreen = ipc.ScreenQuitConfirm
	s.QuitSelection = quitButtonCancel
	s.HandleInput(InputUp)
	if s.QuitSelection != quitButtonQuit {
		t.Fatalf("expected directional input to toggle selection to Quit")
	}
	s.HandleInput(InputSelect)
	if !q.called {
		t.Fatalf("expected quit signaler invoked")
	}
	if s.Visible {
		t.Fatalf("expected overlay hidden after confirmed quit")
	}
}

func TestQuitFlowCancelReturnsToMain(t *testing.T) {
	s, q := newTestState(t)
	s.Visible = true
	s.CurrentScreen = ipc.ScreenQuitConfirm
	s.HandleInput(InputBack)
	if q.called {
		t.Fatalf("cancel must not signal quit")
	}
	if s.CurrentScreen != ipc.ScreenMain || s.SelectedOption != mainOptQuit {
		t.Fatalf("expected Main with Quit re-selected, got %v/%d", s.CurrentScreen, s.SelectedOption)
	}
}

func TestBackTransitionsFromSkeletonScreens(t *testing.T) {
	cases := []struct {
		screen       ipc.Screen
		wantScreen   ipc.Screen
		wantMenuItem int
	}{
		{ipc.ScreenHotkeySettings, ipc.ScreenControllers, 3},
		{ipc.ScreenMenuCustomization, ipc.ScreenMain, -1},
		{ipc.ScreenThemeSelection, ipc.ScreenMain, -1},
		{ipc.ScreenPlaytime, ipc.ScreenMain, -1},
		{ipc.ScreenPerformance, ipc.ScreenMain, -1},
	}
	for _, c := range cases {
		s, _ := newTestState(t)
		s.Visible = true
		s.CurrentScreen = c.screen
		s.HandleInput(InputBack)
		if s.CurrentScreen != c.wantScreen {
			t.Fatalf("%v: expected Back to reach %v, got %v", c.screen, c.wantScreen, s.CurrentScreen)
		}
		if c.wantMenuItem >= 0 && s.Controllers.SelectedMenuItem != c.wantMenuItem {
			t.Fatalf("%v: expected controllers menu item %d, got %d", c.screen, c.wantMenuItem, s.Controllers.SelectedMenuItem)
		}
	}
}

func TestRealQuitSignalerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quit")
	sig := &FileQuitSignaler{Path: path}
	if err := sig.SignalQuit(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "quit\n" {
		t.Fatalf("got %q, want %q", data, "quit\n")
	}
}

func TestAchievementsScrollInvariantHolds(t *testing.T) {
	s, _ := newTestState(t)
	var list []ipc.AchievementInfo
	for i := 0; i < 20; i++ {
		list = append(list, ipc.AchievementInfo{ID: uint32(i), Title: "a"})
	}
	s.Achievements.SetAchievements("g", "h", list)
	s.Visible = true
	s.CurrentScreen = ipc.ScreenAchievements

	checkInvariant := func() {
		t.Helper()
		sel := s.Achievements.SelectedIndex
		scroll := s.Achievements.ScrollOffset
		total := len(s.Achievements.FilteredIndices())
		if !(scroll <= sel && sel < scroll+achievementsMaxVisible) {
			t.Fatalf("scroll invariant violated: scroll=%d sel=%d max_visible=%d", scroll, sel, achievementsMaxVisible)
		}
		maxScroll := total - achievementsMaxVisible
		if maxScroll < 0 {
			maxScroll = 0
		}
		if scroll > maxScroll {
			t.Fatalf("scroll %d exceeds max %d", scroll, maxScroll)
		}
	}

	for i := 0; i < 19; i++ {
		s.HandleInput(InputDown)
		checkInvariant()
	}
	for i := 0; i < 25; i++ {
		s.HandleInput(InputUp)
		checkInvariant()
	}
}

func TestGameStoppedClearsOutOfOrderAchievementState(t *testing.T) {
	s, _ := newTestState(t)
	now := time.Now()

	s.HandleMessage(now, ipc.GameStarted("A", "Game A", "gba"))
	s.HandleMessage(now, ipc.Message{
		Type: ipc.TypeRaAchievementList, GameTitle: "Game A", GameHash: "h1",
		Achievements: []ipc.AchievementInfo{{ID: 1, Title: "x"}},
	})
	s.HandleMessage(now, ipc.GameStopped("A"))
	// A late-arriving list for a different game after game_stopped (S5)
	// must populate the cleared tracker with the new game's data.
	s.HandleMessage(now, ipc.Message{
		Type: ipc.TypeRaAchievementList, GameTitle: "Game B", GameHash: "h2",
		Achievements: []ipc.AchievementInfo{{ID: 2, Title: "y"}, {ID: 3, Title: "z"}},
	})

	if s.Achievements.GameTitle != "Game B" || len(s.Achievements.Achievements) != 2 {
		t.Fatalf("expected tracker repopulated with Game B's list, got %+v", s.Achievements)
	}
}

func TestUnknownMessageVariantIsIgnoredNotFatal(t *testing.T) {
	s, _ := newTestState(t)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("HandleMessage panicked on unknown variant: %v", r)
		}
	}()
	s.HandleMessage(time.Now(), ipc.Message{Type: ipc.Type("totally_unknown")})
}
