package overlay

import "testing"

func TestAssignmentBijection(t *testing.T) {
	c := NewControllerTable()
	c.Connect("Pad 1")
	c.Connect("Pad 2")

	if err := c.AssignControllerToPlayer(0, 1); err != nil {
		t.Fatal(err)
	}
	if !c.CheckInvariant() {
		t.Fatalf("bijection broken after first assign")
	}

	if err := c.AssignControllerToPlayer(1, 1); err != nil {
		t.Fatal(err)
	}
	if !c.CheckInvariant() {
		t.Fatalf("bijection broken after reassigning player 1")
	}
	if c.Controllers[0].AssignedPlayer != nil {
		t.Fatalf("controller 0 should have been displaced from player 1")
	}

	c.UnassignController(1)
	if !c.CheckInvariant() {
		t.Fatalf("bijection broken after unassign")
	}
	if c.PlayerAssignments[0] != nil {
		t.Fatalf("player 1 slot should be empty after unassign")
	}
}

func TestAutoAssignAllFillsInConnectionOrder(t *testing.T) {
	c := NewControllerTable()
	for i := 0; i < 3; i++ {
		c.Connect("Pad")
	}
	n := c.AutoAssignAll()
	if n != 3 {
		t.Fatalf("assigned %d, want 3", n)
	}
	for i := 0; i < 3; i++ {
		if c.Controllers[i].AssignedPlayer == nil || *c.Controllers[i].AssignedPlayer != i+1 {
			t.Fatalf("controller %d not assigned to player %d", i, i+1)
		}
	}
	if !c.CheckInvariant() {
		t.Fatalf("bijection broken after auto-assign")
	}
}

func TestAutoAssignAllCapsAtMaxPlayers(t *testing.T) {
	c := NewControllerTable()
	for i := 0; i < 6; i++ {
		c.Connect("Pad")
	}
	n := c.AutoAssignAll()
	if n != MaxPlayers {
		t.Fatalf("assigned %d, want %d", n, MaxPlayers)
	}
	for i := MaxPlayers; i < 6; i++ {
		if c.Controllers[i].AssignedPlayer != nil {
			t.Fatalf("controller %d should remain unassigned beyond MaxPlayers", i)
		}
	}
}

func TestCycleAssignmentWrapsThroughUnassigned(t *testing.T) {
	c := NewControllerTable()
	c.Connect("Pad 1")

	c.CycleAssignment(1, true) // assign controller 0
	if c.Controllers[0].AssignedPlayer == nil {
		t.Fatalf("expected controller 0 assigned after first cycle")
	}
	c.CycleAssignment(1, true) // wraps to unassigned
	if c.Controllers[0].AssignedPlayer != nil {
		t.Fatalf("expected controller 0 unassigned after wraparound cycle")
	}
	if !c.CheckInvariant() {
		t.Fatalf("bijection broken after cycling")
	}
}
