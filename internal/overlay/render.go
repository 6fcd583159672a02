package overlay

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// HeadlessRenderer is the overlay's diagnostic renderer (SPEC_FULL.md §11
// DOMAIN STACK): status and toast events are mirrored to a raw terminal
// instead of silently doing nothing, the way the teacher's terminal-state
// management keeps a raw mode active only while it owns the fd. The
// overlay command always uses this renderer; there is no --no-window flag
// and no windowed renderer.
type HeadlessRenderer struct {
	out     io.Writer
	fd      int
	profile termenv.Profile
	oldState *term.State
}

// NewHeadlessRenderer wraps w for colorized status output. If fd names a
// real terminal, raw mode is entered so single-key diagnostics could be
// read without a newline; on a non-terminal fd (tests, piped output) this
// is a no-op rather than an error, since the headless mode's whole point
// is "never a hard dependency."
func NewHeadlessRenderer(w io.Writer, fd int) *HeadlessRenderer {
	r := &HeadlessRenderer{out: w, fd: fd, profile: termenv.NewOutput(w).Profile}
	if term.IsTerminal(fd) {
		if st, err := term.MakeRaw(fd); err == nil {
			r.oldState = st
		}
	}
	return r
}

// Close restores the terminal's prior mode, if raw mode was entered.
func (r *HeadlessRenderer) Close() error {
	if r.oldState != nil {
		return term.Restore(r.fd, r.oldState)
	}
	return nil
}

// Present writes one status line per tick summarizing visible toasts and
// the current screen — there is no window to draw into in headless mode,
// matching §4.3's "every render path draws only what is visible."
func (r *HeadlessRenderer) Present(s *State) {
	if s.Visible {
		line := fmt.Sprintf("[overlay] screen=%s option=%d", s.CurrentScreen, s.SelectedOption)
		styled := r.profile.String(line).Foreground(r.profile.Color("3"))
		fmt.Fprintf(r.out, "%s\r\n", styled)
	}
	for _, t := range s.Toasts.VisibleToasts() {
		fmt.Fprintf(r.out, "[toast:%s] %s\r\n", t.Style, t.Message)
	}
}
