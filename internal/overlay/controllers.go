package overlay

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxPlayers is the number of player-assignment slots, grounded on
// controllers.rs's MAX_PLAYERS.
const MaxPlayers = 4

// ControllerMenuOptions are the Controllers screen's menu entries, in
// order, recovered from controllers.rs's CONTROLLER_MENU_OPTIONS
// (SPEC_FULL.md §12).
var ControllerMenuOptions = []string{
	"BLUETOOTH CONTROLLERS",
	"ASSIGN CONTROLLERS",
	"GAMEPAD TESTER",
	"HOTKEY SETTINGS",
	"AUTO-ASSIGN ALL",
	"BACK",
}

// ConnectedController is one entry of the controller table (§3).
type ConnectedController struct {
	ID            int
	Name          string
	UUID          string
	BatteryLevel  *uint8
	AssignedPlayer *int // 1-4, nil if unassigned
}

// BluetoothScanState mirrors the original's BluetoothScanState enum,
// preserved per SPEC_FULL.md §12 as a UI-state skeleton with no real
// Bluetooth backend (spec.md §9 open question).
type BluetoothScanState int

const (
	BluetoothIdle BluetoothScanState = iota
	BluetoothScanning
	BluetoothPairing
	BluetoothConnecting
	BluetoothError
)

// BluetoothDevice is a discovered-but-unconnected Bluetooth controller
// candidate, UI-state only.
type BluetoothDevice struct {
	MACAddress string
	Name       string
	IsPaired   bool
	IsConnected bool
}

// GamepadButtonState is the gamepad tester's live button/axis snapshot,
// UI-state only (no extra polling backend wired, per spec.md §9).
type GamepadButtonState struct {
	A, B, X, Y                             bool
	DPadUp, DPadDown, DPadLeft, DPadRight   bool
	LB, RB                                 bool
	LT, RT                                 float32
	LeftStickX, LeftStickY                 float32
	RightStickX, RightStickY               float32
	Start, Select, Guide                   bool
}

// ControllerTable owns the connected-controller list and the 4-slot
// player-assignment array, enforcing the bijection invariant (§3 / #6):
// controllers[i].AssignedPlayer = p iff PlayerAssignments[p-1] = controllers[i].ID.
type ControllerTable struct {
	Controllers       []ConnectedController
	PlayerAssignments [MaxPlayers]*int // controller ID per slot

	BluetoothDevices []BluetoothDevice
	BluetoothState   BluetoothScanState
	BTSelectedIndex  int

	SelectedMenuItem      int
	AssignSelectedPlayer  int // 0-3
	TesterSelectedController int
	TesterButtonState     GamepadButtonState

	ErrorMessage   string
	SuccessMessage string
	successAt      time.Time
}

// NewControllerTable returns an empty controller table.
func NewControllerTable() *ControllerTable {
	return &ControllerTable{}
}

// Connect adds a newly-detected controller in connection order, assigning
// it a fresh UUID the way the teacher assigns correlation IDs elsewhere.
func (c *ControllerTable) Connect(name string) ConnectedController {
	id := len(c.Controllers)
	ctrl := ConnectedController{ID: id, Name: name, UUID: uuid.NewString()}
	c.Controllers = append(c.Controllers, ctrl)
	return ctrl
}

// AssignControllerToPlayer assigns controllerID to player (1-MaxPlayers),
// clearing any prior assignment on either side first so the bijection
// invariant holds afterward, mirroring assign_controller_to_player.
func (c *ControllerTable) AssignControllerToPlayer(controllerID, player int) error {
	if player < 1 || player > MaxPlayers {
		return fmt.Errorf("invalid player number: %d", player)
	}
	idx := c.indexByID(controllerID)
	if idx < 0 {
		return fmt.Errorf("controller %d not found", controllerID)
	}

	if old := c.Controllers[idx].AssignedPlayer; old != nil {
		c.PlayerAssignments[*old-1] = nil
	}
	if existing := c.PlayerAssignments[player-1]; existing != nil {
		if oi := c.indexByID(*existing); oi >= 0 {
			c.Controllers[oi].AssignedPlayer = nil
		}
	}

	p := player
	c.Controllers[idx].AssignedPlayer = &p
	cid := controllerID
	c.PlayerAssignments[player-1] = &cid
	return nil
}

// UnassignController clears controllerID's player assignment on both sides.
func (c *ControllerTable) UnassignController(controllerID int) {
	idx := c.indexByID(controllerID)
	if idx < 0 {
		return
	}
	if p := c.Controllers[idx].AssignedPlayer; p != nil {
		c.PlayerAssignments[*p-1] = nil
	}
	c.Controllers[idx].AssignedPlayer = nil
}

// AutoAssignAll clears existing assignments and fills slots in connection
// order, matching auto_assign_all.
func (c *ControllerTable) AutoAssignAll() int {
	for i := range c.PlayerAssignments {
		c.PlayerAssignments[i] = nil
	}
	for i := range c.Controllers {
		c.Controllers[i].AssignedPlayer = nil
	}
	assigned := 0
	for i := range c.Controllers {
		if i >= MaxPlayers {
			break
		}
		p := i + 1
		c.Controllers[i].AssignedPlayer = &p
		cid := c.Controllers[i].ID
		c.PlayerAssignments[i] = &cid
		assigned++
	}
	return assigned
}

func (c *ControllerTable) indexByID(id int) int {
	for i, ctrl := range c.Controllers {
		if ctrl.ID == id {
			return i
		}
	}
	return -1
}

// CheckInvariant verifies the player-assignment bijection (Invariant 6).
// Exposed for tests; a real daemon never needs to call this on the hot
// path since every mutation maintains it by construction.
func (c *ControllerTable) CheckInvariant() bool {
	for i, ctrl := range c.Controllers {
		if ctrl.AssignedPlayer != nil {
			p := *ctrl.AssignedPlayer
			if p < 1 || p > MaxPlayers {
				return false
			}
			if c.PlayerAssignments[p-1] == nil || *c.PlayerAssignments[p-1] != ctrl.ID {
				return false
			}
		}
		_ = i
	}
	for slot, cid := range c.PlayerAssignments {
		if cid == nil {
			continue
		}
		idx := c.indexByID(*cid)
		if idx < 0 || c.Controllers[idx].AssignedPlayer == nil || *c.Controllers[idx].AssignedPlayer != slot+1 {
			return false
		}
	}
	return true
}

// CycleAssignment implements the ControllerAssign screen's Left/Right
// gesture recovered from controllers.rs (SPEC_FULL.md §12): cycle through
// controllers not already assigned to a *different* player, plus one extra
// "unassigned" slot in the cycle.
func (c *ControllerTable) CycleAssignment(player int, forward bool) {
	if len(c.Controllers) == 0 {
		return
	}
	var available []int
	for _, ctrl := range c.Controllers {
		if ctrl.AssignedPlayer == nil || *ctrl.AssignedPlayer == player {
			available = append(available, ctrl.ID)
		}
	}
	if len(available) == 0 {
		return
	}

	var current *int
	if c.PlayerAssignments[player-1] != nil {
		current = c.PlayerAssignments[player-1]
	}
	currentIdx := 0
	if current != nil {
		for i, id := range available {
			if id == *current {
				currentIdx = i
				break
			}
		}
	}

	var nextIdx int
	if forward {
		if current == nil {
			nextIdx = 0 // from the unassigned slot, wrap to the first controller
		} else {
			nextIdx = (currentIdx + 1) % (len(available) + 1)
		}
	} else {
		switch {
		case currentIdx == 0 && current != nil:
			nextIdx = len(available) // unassign
		case currentIdx == 0:
			nextIdx = len(available) - 1
			if nextIdx < 0 {
				nextIdx = 0
			}
		default:
			nextIdx = currentIdx - 1
		}
	}

	if nextIdx >= len(available) {
		if current != nil {
			c.UnassignController(*current)
		}
		return
	}
	_ = c.AssignControllerToPlayer(available[nextIdx], player)
}

// ResetTesterState clears the gamepad tester's live button snapshot.
func (c *ControllerTable) ResetTesterState() {
	c.TesterButtonState = GamepadButtonState{}
}

// ShowSuccess records a transient success message, cleared by
// UpdateMessages after 3s, matching show_success/update_messages.
func (c *ControllerTable) ShowSuccess(now time.Time, msg string) {
	c.SuccessMessage = msg
	c.successAt = now
	c.ErrorMessage = ""
}

// ShowError records a persistent error message until the next action.
func (c *ControllerTable) ShowError(msg string) {
	c.ErrorMessage = msg
	c.SuccessMessage = ""
}

// UpdateMessages clears the success message after its 3s lifetime.
func (c *ControllerTable) UpdateMessages(now time.Time) {
	if c.SuccessMessage != "" && now.Sub(c.successAt) > 3*time.Second {
		c.SuccessMessage = ""
	}
}
