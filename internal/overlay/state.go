package overlay

import (
	"fmt"
	"time"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

// mainMenuOptionCount fixes the Main screen's option list recovered from
// state.rs (SPEC_FULL.md §12): Controllers, Settings, Achievements, Quick
// Save, Resume, Quit.
const mainMenuOptionCount = 6

const (
	mainOptControllers = iota
	mainOptSettings
	mainOptAchievements
	mainOptQuickSave
	mainOptResume
	mainOptQuit
)

// achievementsMaxVisible is the Achievements screen's visible-row count,
// recovered from state.rs's handle_achievements_input.
const achievementsMaxVisible = 6

// QuitConfirm is a two-button dialog, Cancel default (§4.3): any
// directional input toggles between the two, and only Select on Quit
// writes the quit signal.
const (
	quitButtonCancel = iota
	quitButtonQuit
)

// QuitSignaler writes the one-shot quit-signal file and best-effort
// SIGTERMs known emulator process names (§4.3 Quit flow / §6). It is an
// interface so the render loop can be driven in tests without touching the
// filesystem or process table.
type QuitSignaler interface {
	SignalQuit() error
}

// State is the overlay daemon's single owned state tree (§3 "Overlay
// state"), mutated only from the render loop in response to IPC messages
// or polled inputs, grounded on state.rs's OverlayState.
type State struct {
	Visible        bool
	CurrentScreen  ipc.Screen
	SelectedOption int
	QuitSelection  int

	Toasts       *ToastManager
	Achievements *AchievementTracker
	Controllers  *ControllerTable
	Performance  *PerformanceWindow
	Playtime     *PlaytimeTracker

	FontColor   string
	CursorColor string

	Menu    MenuConfig
	Hotkeys HotkeyConfig

	quit QuitSignaler
	log  *activitylog.Logger
}

// NewState returns a fresh, hidden-at-Main state tree.
func NewState(quit QuitSignaler, playtime *PlaytimeTracker, log *activitylog.Logger) *State {
	return &State{
		CurrentScreen: ipc.ScreenMain,
		Toasts:        NewToastManager(),
		Achievements:  NewAchievementTracker(),
		Controllers:   NewControllerTable(),
		Performance:   NewPerformanceWindow(),
		Playtime:      playtime,
		FontColor:     "WHITE",
		CursorColor:   "YELLOW",
		Menu:          defaultMenuConfig(),
		Hotkeys:       defaultHotkeyConfig(),
		quit:          quit,
		log:           log,
	}
}

// ToggleVisibility implements the overlay-toggle hotkey contract (§4.3):
// hidden→shown always resets to Main with selection 0 (never preserves
// the previous screen); shown→hidden just hides.
func (s *State) ToggleVisibility() {
	s.Visible = !s.Visible
	if s.Visible {
		s.CurrentScreen = ipc.ScreenMain
		s.SelectedOption = 0
	}
}

// ShouldRender reports whether any render path has visible work: the
// overlay itself, or a non-empty toast queue on an otherwise transparent
// frame (§4.3 Rendering responsibility).
func (s *State) ShouldRender() bool {
	return s.Visible || !s.Toasts.IsEmpty()
}

// HandleMessage applies one decoded IPC message to state, matching
// state.rs's handle_message match arms. Unknown/unhandled variants are
// simply not matched here — the ipc package's Poll already drops anything
// not in its known-type set before this is ever called (§4.1).
func (s *State) HandleMessage(now time.Time, m ipc.Message) {
	switch m.Type {
	case ipc.TypeShowToast:
		s.Toasts.AddAt(now, m.Message, m.Icon, m.Style, m.DurationMS)
	case ipc.TypeShowOverlay:
		s.Visible = true
		s.CurrentScreen = m.Screen
	case ipc.TypeHideOverlay:
		s.Visible = false
	case ipc.TypeToggleOverlay:
		s.ToggleVisibility()
	case ipc.TypeSetTheme:
		s.FontColor = m.FontColor
		s.CursorColor = m.CursorColor
	case ipc.TypeUnlockAchievement:
		s.Achievements.MarkEarned(m.AchievementID, false)
		s.Toasts.AddAt(now, fmt.Sprintf("Achievement Unlocked: %d", m.AchievementID), "", ipc.StyleSuccess, 5000)
	case ipc.TypeGameStarted:
		if s.Playtime != nil {
			s.Playtime.StartSession(now, m.CartID)
		}
		s.Toasts.AddAt(now, fmt.Sprintf("▶ %s", m.GameName), "", ipc.StyleInfo, 2000)
	case ipc.TypeGameStopped:
		// Out-of-order tolerance (§4.1): clearing to the no-game state is
		// correct regardless of what achievement messages arrived after
		// game_started and before this event.
		s.Achievements.Clear()
		if s.Playtime != nil {
			s.Playtime.EndSession(now)
		}
	case ipc.TypeRaGameStart:
		if m.TotalAchievements > 0 {
			s.Toasts.AddAt(now, fmt.Sprintf("%s - %d/%d achievements", m.GameTitle, m.EarnedAchievements, m.TotalAchievements), "", ipc.StyleInfo, 4000)
		}
	case ipc.TypeRaAchievementUnlock:
		s.Toasts.AddAt(now, fmt.Sprintf("%s (%d pts)", m.Title, m.Points), "", ipc.StyleSuccess, 5000)
	case ipc.TypeRaAchievementList:
		s.Achievements.SetAchievements(m.GameTitle, m.GameHash, m.Achievements)
	case ipc.TypeQuitGameAck:
		s.Toasts.AddAt(now, "Returning to BIOS...", "", ipc.StyleInfo, 2000)
	}
}

// Update advances time-driven state: toast expiry and transient message
// clearing, matching state.rs's OverlayState::update.
func (s *State) Update(now time.Time) {
	s.Toasts.Update(now)
	s.Controllers.UpdateMessages(now)
}

// HandleInput applies one polled ControllerInput to the screen graph.
// Inputs are only processed while the overlay is visible (§4.3).
func (s *State) HandleInput(input ControllerInput) {
	if !s.Visible {
		return
	}
	switch s.CurrentScreen {
	case ipc.ScreenMain:
		s.handleMain(input)
	case ipc.ScreenSettings:
		s.handleBackOnly(input, ipc.ScreenMain, mainOptSettings)
	case ipc.ScreenAchievements:
		s.handleAchievements(input)
	case ipc.ScreenControllers:
		s.handleControllersMenu(input)
	case ipc.ScreenBluetoothPairing:
		s.handleBluetooth(input)
	case ipc.ScreenControllerAssign:
		s.handleAssign(input)
	case ipc.ScreenGamepadTester:
		s.handleTester(input)
	case ipc.ScreenQuitConfirm:
		s.handleQuitConfirm(input)
	case ipc.ScreenHotkeySettings:
		if input == InputBack {
			s.CurrentScreen = ipc.ScreenControllers
			s.Controllers.SelectedMenuItem = 3
		}
	case ipc.ScreenMenuCustomization, ipc.ScreenThemeSelection, ipc.ScreenPlaytime, ipc.ScreenPerformance:
		if input == InputBack {
			s.CurrentScreen = ipc.ScreenMain
			s.SelectedOption = 0
		}
	}
}

func (s *State) handleMain(input ControllerInput) {
	switch input {
	case InputUp:
		if s.SelectedOption > 0 {
			s.SelectedOption--
		}
	case InputDown:
		if s.SelectedOption < mainMenuOptionCount-1 {
			s.SelectedOption++
		}
	case InputSelect:
		switch s.SelectedOption {
		case mainOptControllers:
			s.CurrentScreen = ipc.ScreenControllers
			s.Controllers.SelectedMenuItem = 0
		case mainOptSettings:
			s.CurrentScreen = ipc.ScreenSettings
		case mainOptAchievements:
			s.CurrentScreen = ipc.ScreenAchievements
		case mainOptQuickSave:
			// Quick Save is a toast-only no-op: save-file archiving is
			// out of scope (spec.md §1), matching the original's
			// "TODO: Implement actual save functionality".
			s.Toasts.Add("Game saved", "", ipc.StyleSuccess, 2000)
		case mainOptResume:
			s.Visible = false
		case mainOptQuit:
			s.CurrentScreen = ipc.ScreenQuitConfirm
			s.QuitSelection = quitButtonCancel
		}
	case InputBack, InputGuide:
		s.Visible = false
	}
}

func (s *State) handleBackOnly(input ControllerInput, parent ipc.Screen, parentOption int) {
	if input == InputBack {
		s.CurrentScreen = parent
		s.SelectedOption = parentOption
	}
}

func (s *State) handleAchievements(input ControllerInput) {
	total := len(s.Achievements.FilteredIndices())
	switch input {
	case InputUp:
		if s.Achievements.SelectedIndex > 0 {
			s.Achievements.SelectedIndex--
		}
	case InputDown:
		if s.Achievements.SelectedIndex < total-1 {
			s.Achievements.SelectedIndex++
		}
	case InputBack:
		s.CurrentScreen = ipc.ScreenMain
		s.SelectedOption = mainOptAchievements
		s.Achievements.SelectedIndex = 0
		s.Achievements.ScrollOffset = 0
		return
	}
	s.Achievements.ScrollOffset = adjustScroll(s.Achievements.SelectedIndex, s.Achievements.ScrollOffset, total, achievementsMaxVisible)
}

func (s *State) handleControllersMenu(input ControllerInput) {
	menuLen := len(ControllerMenuOptions)
	switch input {
	case InputUp:
		if s.Controllers.SelectedMenuItem > 0 {
			s.Controllers.SelectedMenuItem--
		}
	case InputDown:
		if s.Controllers.SelectedMenuItem < menuLen-1 {
			s.Controllers.SelectedMenuItem++
		}
	case InputSelect:
		switch s.Controllers.SelectedMenuItem {
		case 0:
			s.CurrentScreen = ipc.ScreenBluetoothPairing
			s.Controllers.BTSelectedIndex = 0
		case 1:
			s.CurrentScreen = ipc.ScreenControllerAssign
			s.Controllers.AssignSelectedPlayer = 0
		case 2:
			s.CurrentScreen = ipc.ScreenGamepadTester
			s.Controllers.ResetTesterState()
		case 3:
			s.CurrentScreen = ipc.ScreenHotkeySettings
		case 4:
			n := s.Controllers.AutoAssignAll()
			msg := fmt.Sprintf("Auto-assigned %d controller(s)", n)
			s.Controllers.ShowSuccess(time.Now(), msg)
			s.Toasts.Add(msg, "", ipc.StyleSuccess, 2000)
		case 5:
			s.CurrentScreen = ipc.ScreenMain
			s.SelectedOption = mainOptControllers
		}
	case InputBack:
		s.CurrentScreen = ipc.ScreenMain
		s.SelectedOption = mainOptControllers
	}
}

func (s *State) handleBluetooth(input ControllerInput) {
	count := len(s.Controllers.BluetoothDevices)
	switch input {
	case InputUp:
		if s.Controllers.BTSelectedIndex > 0 {
			s.Controllers.BTSelectedIndex--
		}
	case InputDown:
		if count > 0 && s.Controllers.BTSelectedIndex < count-1 {
			s.Controllers.BTSelectedIndex++
		}
	case InputSelect:
		if s.Controllers.BTSelectedIndex < count {
			dev := &s.Controllers.BluetoothDevices[s.Controllers.BTSelectedIndex]
			switch {
			case !dev.IsPaired:
				s.Controllers.BluetoothState = BluetoothPairing
				s.Toasts.Add(fmt.Sprintf("Pairing with %s...", dev.Name), "", ipc.StyleInfo, 3000)
			case !dev.IsConnected:
				s.Controllers.BluetoothState = BluetoothConnecting
				s.Toasts.Add(fmt.Sprintf("Connecting to %s...", dev.Name), "", ipc.StyleInfo, 3000)
			}
		}
	case InputSecondary:
		switch s.Controllers.BluetoothState {
		case BluetoothIdle:
			s.Controllers.BluetoothState = BluetoothScanning
			s.Toasts.Add("Scanning for Bluetooth devices...", "", ipc.StyleInfo, 2000)
		case BluetoothScanning:
			s.Controllers.BluetoothState = BluetoothIdle
		}
	case InputBack:
		s.CurrentScreen = ipc.ScreenControllers
		s.Controllers.SelectedMenuItem = 0
		s.Controllers.BluetoothState = BluetoothIdle
	}
}

func (s *State) handleAssign(input ControllerInput) {
	switch input {
	case InputUp:
		if s.Controllers.AssignSelectedPlayer > 0 {
			s.Controllers.AssignSelectedPlayer--
		}
	case InputDown:
		if s.Controllers.AssignSelectedPlayer < MaxPlayers-1 {
			s.Controllers.AssignSelectedPlayer++
		}
	case InputLeft:
		s.Controllers.CycleAssignment(s.Controllers.AssignSelectedPlayer+1, false)
	case InputRight:
		s.Controllers.CycleAssignment(s.Controllers.AssignSelectedPlayer+1, true)
	case InputSelect:
		player := s.Controllers.AssignSelectedPlayer + 1
		var unassigned *int
		for _, c := range s.Controllers.Controllers {
			if c.AssignedPlayer == nil {
				id := c.ID
				unassigned = &id
				break
			}
		}
		if unassigned != nil {
			if err := s.Controllers.AssignControllerToPlayer(*unassigned, player); err != nil {
				s.Controllers.ShowError(err.Error())
			} else {
				s.Toasts.Add(fmt.Sprintf("Assigned controller to Player %d", player), "", ipc.StyleSuccess, 2000)
			}
		} else {
			s.Toasts.Add("No unassigned controllers available", "", ipc.StyleWarning, 2000)
		}
	case InputBack:
		s.CurrentScreen = ipc.ScreenControllers
		s.Controllers.SelectedMenuItem = 1
	}
}

func (s *State) handleTester(input ControllerInput) {
	count := len(s.Controllers.Controllers)
	switch input {
	case InputLeft:
		if s.Controllers.TesterSelectedController > 0 {
			s.Controllers.TesterSelectedController--
			s.Controllers.ResetTesterState()
		}
	case InputRight:
		if count > 0 && s.Controllers.TesterSelectedController < count-1 {
			s.Controllers.TesterSelectedController++
			s.Controllers.ResetTesterState()
		}
	case InputBack:
		s.CurrentScreen = ipc.ScreenControllers
		s.Controllers.SelectedMenuItem = 2
		s.Controllers.ResetTesterState()
	}
}

func (s *State) handleQuitConfirm(input ControllerInput) {
	switch input {
	case InputUp, InputDown, InputLeft, InputRight:
		if s.QuitSelection == quitButtonCancel {
			s.QuitSelection = quitButtonQuit
		} else {
			s.QuitSelection = quitButtonCancel
		}
	case InputSelect:
		if s.QuitSelection != quitButtonQuit {
			s.CurrentScreen = ipc.ScreenMain
			s.SelectedOption = mainOptQuit
			return
		}
		if err := s.quit.SignalQuit(); err != nil {
			s.log.Error("quit_signal_failed", err)
			s.Toasts.Add(fmt.Sprintf("Failed to quit: %v", err), "", ipc.StyleError, 3000)
			return
		}
		s.Toasts.Add("Returning to BIOS...", "", ipc.StyleInfo, 2000)
		s.Visible = false
	case InputBack:
		s.CurrentScreen = ipc.ScreenMain
		s.SelectedOption = mainOptQuit
	}
}

// adjustScroll restores the selection/scroll invariant (§4.3 / Invariant
// 4): scrollOffset <= selected < scrollOffset+maxVisible, and
// scrollOffset <= max(0, total-maxVisible).
func adjustScroll(selected, scroll, total, maxVisible int) int {
	if selected < scroll {
		scroll = selected
	}
	if selected >= scroll+maxVisible {
		scroll = selected - maxVisible + 1
	}
	maxScroll := total - maxVisible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
