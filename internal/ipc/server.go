package ipc

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"time"
)

// Handler processes one decoded Message arriving on the bus.
type Handler func(Message)

// Server owns the overlay's singleton socket. Bind follows the teacher's
// daemon.go sequence: detect a live instance by dialing with a timeout,
// remove a stale socket file, then listen. It accepts connections
// non-blockingly each frame via Poll, matching §4.1's "accepts all pending
// connections on each frame" transport contract.
type Server struct {
	path     string
	listener *net.UnixListener
}

// Listen binds the overlay socket at path, removing a stale file left by a
// crashed prior instance. Returns an error only on genuine bind failure
// (§7: "Socket bind fails (address in use)" is fatal to the overlay).
func Listen(path string) (*Server, error) {
	if _, err := os.Stat(path); err == nil {
		if conn, dialErr := net.DialTimeout("unix", path, 200*time.Millisecond); dialErr == nil {
			conn.Close()
			return nil, fmt.Errorf("overlay socket %s: another instance is already running", path)
		}
		os.Remove(path)
	}

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, fmt.Errorf("resolve overlay socket address: %w", err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("bind overlay socket %s: %w", path, err)
	}
	ln.SetUnlinkOnClose(true)
	return &Server{path: path, listener: ln}, nil
}

// Close removes the socket file and releases the listener.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Poll accepts all pending connections without blocking and dispatches each
// complete line read from them to handle. It is meant to be called once per
// render-loop tick (§4.3 step 4: "drain all pending IPC messages").
func (s *Server) Poll(handle Handler, onParseError func(error)) {
	for {
		if err := s.listener.SetDeadline(time.Now().Add(time.Millisecond)); err != nil {
			return
		}
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.drain(conn, handle, onParseError)
	}
}

// drain reads every newline-delimited message on conn until EOF or a read
// error, then closes the connection. Keep-alive clients may send several
// messages; each is yielded in order (§4.1 Framing).
func (s *Server) drain(conn net.Conn, handle Handler, onParseError func(error)) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := Decode(line)
		if err != nil {
			if onParseError != nil {
				onParseError(err)
			}
			continue
		}
		if !knownType(msg.Type) {
			if onParseError != nil {
				onParseError(fmt.Errorf("unknown message type %q", msg.Type))
			}
			continue
		}
		handle(msg)
	}
}

func knownType(t Type) bool {
	switch t {
	case TypeShowToast, TypeShowOverlay, TypeHideOverlay, TypeToggleOverlay,
		TypeSetTheme, TypeGetStatus, TypeGameStarted, TypeGameStopped,
		TypeQuitGame, TypeQuitGameAck, TypeUnlockAchievement,
		TypeRaGameStart, TypeRaAchievementList, TypeRaAchievementUnlock,
		TypeRaProgressUpdate:
		return true
	default:
		return false
	}
}
