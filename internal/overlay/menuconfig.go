package overlay

import "kazeta/internal/config"

// MenuConfig is the persisted per-user menu-customization document
// (§6 "<local_data>/kazeta-plus/overlay/menu.json"), preserved as a
// UI-state-only skeleton per spec.md §9 ("hotkey configuration UI... have
// UI skeletons but no backend... preserve the UI state machine only").
type MenuConfig struct {
	Version       int      `json:"version"`
	HiddenOptions []string `json:"hidden_options"`
	CustomOrder   []string `json:"custom_order,omitempty"`
}

func defaultMenuConfig() MenuConfig {
	return MenuConfig{Version: 1}
}

// LoadMenuConfig loads the menu config at path, falling back to defaults
// on a missing or corrupt file (§7).
func LoadMenuConfig(path string) MenuConfig {
	return config.LoadOrDefault(path, defaultMenuConfig())
}

// Save persists the menu config to path.
func (m MenuConfig) Save(path string) error {
	return config.Save(path, m)
}

// ThemeConfig is the persisted theme document
// (§6 ".../overlay/theme.json"), grounded on themes.rs's named-color
// palette and the set_theme message's font_color/cursor_color pair.
type ThemeConfig struct {
	Version     int    `json:"version"`
	FontColor   string `json:"font_color"`
	CursorColor string `json:"cursor_color"`
}

func defaultThemeConfig() ThemeConfig {
	return ThemeConfig{Version: 1, FontColor: "WHITE", CursorColor: "YELLOW"}
}

// LoadThemeConfig loads the theme config at path, falling back to
// defaults on a missing or corrupt file (§7).
func LoadThemeConfig(path string) ThemeConfig {
	return config.LoadOrDefault(path, defaultThemeConfig())
}

// Save persists the theme config to path.
func (t ThemeConfig) Save(path string) error {
	return config.Save(path, t)
}

// HotkeyConfig is the persisted hotkey-customization document, preserved
// as a UI-state-only skeleton (spec.md §9): the input daemon's actual
// recognized gestures remain fixed (BTN_MODE, F12, Ctrl+O) regardless of
// this document, since no backend wiring for rebinding exists in the
// original either.
type HotkeyConfig struct {
	Version         int  `json:"version"`
	GuideEnabled    bool `json:"guide_enabled"`
	F12Enabled      bool `json:"f12_enabled"`
	CtrlOEnabled    bool `json:"ctrl_o_enabled"`
}

func defaultHotkeyConfig() HotkeyConfig {
	return HotkeyConfig{Version: 1, GuideEnabled: true, F12Enabled: true, CtrlOEnabled: true}
}

// LoadHotkeyConfig loads the hotkey config at path, falling back to
// defaults on a missing or corrupt file (§7).
func LoadHotkeyConfig(path string) HotkeyConfig {
	return config.LoadOrDefault(path, defaultHotkeyConfig())
}

// Save persists the hotkey config to path.
func (h HotkeyConfig) Save(path string) error {
	return config.Save(path, h)
}
