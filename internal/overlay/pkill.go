package overlay

import "os/exec"

// pkillTerm best-effort SIGTERMs every process matching name via pkill,
// matching signal_game_quit's `pkill -TERM <name>` backup broadcast.
func pkillTerm(name string) error {
	return exec.Command("pkill", "-TERM", name).Run()
}
