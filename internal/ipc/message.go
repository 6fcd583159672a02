// Package ipc implements the overlay's Unix-domain-socket message bus: a
// tagged-union JSON wire schema, one object per line, grounded on the
// original implementation's ipc.rs and on the teacher's
// internal/session/message wire conventions (snake_case fields, a JSON
// discriminator tag, newline framing).
package ipc

import (
	"encoding/json"
	"fmt"
)

// Type is the wire discriminator carried in every Message's "type" field.
type Type string

const (
	TypeShowToast            Type = "show_toast"
	TypeShowOverlay          Type = "show_overlay"
	TypeHideOverlay          Type = "hide_overlay"
	TypeToggleOverlay        Type = "toggle_overlay"
	TypeSetTheme             Type = "set_theme"
	TypeGetStatus            Type = "get_status"
	TypeGameStarted          Type = "game_started"
	TypeGameStopped          Type = "game_stopped"
	TypeQuitGame             Type = "quit_game"
	TypeQuitGameAck          Type = "quit_game_ack"
	TypeUnlockAchievement    Type = "unlock_achievement"
	TypeRaGameStart          Type = "ra_game_start"
	TypeRaAchievementList    Type = "ra_achievement_list"
	TypeRaAchievementUnlock  Type = "ra_achievement_unlocked"
	TypeRaProgressUpdate     Type = "ra_progress_update"
)

// ToastStyle mirrors the original's ToastStyle enum.
type ToastStyle string

const (
	StyleInfo    ToastStyle = "info"
	StyleSuccess ToastStyle = "success"
	StyleWarning ToastStyle = "warning"
	StyleError   ToastStyle = "error"
)

// Screen mirrors the original's OverlayScreen enum — the full node set of
// the screen graph in §4.3.
type Screen string

const (
	ScreenMain              Screen = "main"
	ScreenSettings          Screen = "settings"
	ScreenAchievements      Screen = "achievements"
	ScreenPerformance       Screen = "performance"
	ScreenPlaytime          Screen = "playtime"
	ScreenControllers       Screen = "controllers"
	ScreenBluetoothPairing  Screen = "bluetooth_pairing"
	ScreenControllerAssign  Screen = "controller_assign"
	ScreenGamepadTester     Screen = "gamepad_tester"
	ScreenHotkeySettings    Screen = "hotkey_settings"
	ScreenMenuCustomization Screen = "menu_customization"
	ScreenThemeSelection    Screen = "theme_selection"
	ScreenQuitConfirm       Screen = "quit_confirm"
)

// AchievementProgress carries an in-progress achievement's numerator/denominator.
type AchievementProgress struct {
	Current uint32 `json:"current"`
	Target  uint32 `json:"target"`
}

// AchievementInfo is one entry of a ra_achievement_list payload.
type AchievementInfo struct {
	ID             uint32               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Points         uint32               `json:"points"`
	Earned         bool                 `json:"earned,omitempty"`
	EarnedHardcore bool                 `json:"earned_hardcore,omitempty"`
	RarityPercent  *float64             `json:"rarity_percent,omitempty"`
	EarnedAt       *uint64              `json:"earned_at,omitempty"`
	Progress       *AchievementProgress `json:"progress,omitempty"`
}

// Message is the tagged-union envelope. Only the fields relevant to Type
// are populated; all payload fields are optional so that unknown or
// partially-populated variants decode without error (unknown variants are
// logged and dropped, never fatal, per §4.1).
type Message struct {
	Type Type `json:"type"`

	// show_toast
	Message    string     `json:"message,omitempty"`
	Icon       string     `json:"icon,omitempty"`
	DurationMS uint32     `json:"duration_ms,omitempty"`
	Style      ToastStyle `json:"style,omitempty"`

	// show_overlay
	Screen Screen `json:"screen,omitempty"`

	// set_theme
	FontColor   string `json:"font_color,omitempty"`
	CursorColor string `json:"cursor_color,omitempty"`

	// game_started / game_stopped / unlock_achievement
	CartID  string `json:"cart_id,omitempty"`
	GameName string `json:"game_name,omitempty"`
	Runtime string `json:"runtime,omitempty"`

	// unlock_achievement
	AchievementID uint32 `json:"achievement_id,omitempty"`
	Timestamp     uint64 `json:"timestamp,omitempty"`

	// ra_game_start
	GameTitle          string `json:"game_title,omitempty"`
	GameHash           string `json:"game_hash,omitempty"`
	TotalAchievements  uint32 `json:"total_achievements,omitempty"`
	EarnedAchievements uint32 `json:"earned_achievements,omitempty"`

	// ra_achievement_unlocked
	Title      string `json:"title,omitempty"`
	Points     uint32 `json:"points,omitempty"`
	IsHardcore bool   `json:"is_hardcore,omitempty"`

	// ra_progress_update
	Earned uint32 `json:"earned,omitempty"`
	Total  uint32 `json:"total,omitempty"`

	// ra_achievement_list
	Achievements []AchievementInfo `json:"achievements,omitempty"`
}

// ShowToast builds a show_toast message.
func ShowToast(message, icon string, durationMS uint32, style ToastStyle) Message {
	return Message{Type: TypeShowToast, Message: message, Icon: icon, DurationMS: durationMS, Style: style}
}

// ShowOverlay builds a show_overlay message.
func ShowOverlay(screen Screen) Message {
	return Message{Type: TypeShowOverlay, Screen: screen}
}

// ToggleOverlay builds the hotkey daemon's single outbound message.
func ToggleOverlay() Message {
	return Message{Type: TypeToggleOverlay}
}

// GameStarted builds a game_started lifecycle message.
func GameStarted(cartID, gameName, runtime string) Message {
	return Message{Type: TypeGameStarted, CartID: cartID, GameName: gameName, Runtime: runtime}
}

// GameStopped builds a game_stopped lifecycle message.
func GameStopped(cartID string) Message {
	return Message{Type: TypeGameStopped, CartID: cartID}
}

// Encode serializes a Message as a single newline-terminated JSON line.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode ipc message: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses one JSON line into a Message. Unknown fields are ignored by
// encoding/json by default, matching the "unknown variants are dropped,
// never fatal" contract for forward-compatible field additions; unknown
// Type values decode successfully and are rejected later by the dispatcher.
func Decode(line []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return Message{}, fmt.Errorf("decode ipc message: %w", err)
	}
	return m, nil
}
