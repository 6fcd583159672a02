package ipc

import (
	"net"
	"os"
	"time"
)

// writeTimeout and dialTimeout match §5's "100 ms write-timeout... failures
// are non-fatal" and §4.1's "short timeout" availability probe.
const (
	dialTimeout  = 200 * time.Millisecond
	writeTimeout = 100 * time.Millisecond
)

// Client is a transient connection to the overlay socket. Unlike Server, a
// Client never owns the socket file — it connects, writes, and closes,
// grounded on client.rs's OverlayClient (one socket per outbound message,
// no persistent connection held).
type Client struct {
	path string
}

// NewClient returns a client bound to the given socket path.
func NewClient(path string) *Client {
	return &Client{path: path}
}

// IsAvailable probes the daemon the way client.rs's is_available does: the
// socket file must exist AND a fresh connect must succeed. A stale file
// left by a crashed daemon is removed so future probes don't keep trying a
// dead path (§4.1 Availability probe / §7 "Stale socket, daemon dead").
func (c *Client) IsAvailable() bool {
	if _, err := os.Stat(c.path); err != nil {
		return false
	}
	conn, err := net.DialTimeout("unix", c.path, dialTimeout)
	if err != nil {
		os.Remove(c.path)
		return false
	}
	conn.Close()
	return true
}

// Send opens a fresh connection, writes one encoded message, and closes.
// Failures are non-fatal to the caller: producers never retry (§4.1
// Ordering and delivery).
func (c *Client) Send(m Message) error {
	conn, err := net.DialTimeout("unix", c.path, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	data, err := Encode(m)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err = conn.Write(data)
	return err
}

// ShowToast is a convenience wrapper matching client.rs's show_toast.
func (c *Client) ShowToast(message string, style ToastStyle, durationMS uint32) error {
	return c.Send(ShowToast(message, "", durationMS, style))
}

// Info sends an info-styled toast.
func (c *Client) Info(message string) error { return c.ShowToast(message, StyleInfo, 3000) }

// Success sends a success-styled toast.
func (c *Client) Success(message string) error { return c.ShowToast(message, StyleSuccess, 3000) }

// Warning sends a warning-styled toast.
func (c *Client) Warning(message string) error { return c.ShowToast(message, StyleWarning, 3000) }

// Error sends an error-styled toast.
func (c *Client) Error(message string) error { return c.ShowToast(message, StyleError, 4000) }

// ShowOverlay asks the overlay to become visible at the given screen.
func (c *Client) ShowOverlay(screen Screen) error { return c.Send(ShowOverlay(screen)) }

// HideOverlay asks the overlay to hide.
func (c *Client) HideOverlay() error { return c.Send(Message{Type: TypeHideOverlay}) }

// UnlockAchievement notifies the overlay of a freshly unlocked achievement.
func (c *Client) UnlockAchievement(cartID string, achievementID uint32, timestamp uint64) error {
	return c.Send(Message{Type: TypeUnlockAchievement, CartID: cartID, AchievementID: achievementID, Timestamp: timestamp})
}

// GetStatus requests a status response (the response channel itself is out
// of scope for the coordination core; this exists for completeness of the
// message contract).
func (c *Client) GetStatus() error { return c.Send(Message{Type: TypeGetStatus}) }

// SetTheme pushes a theme update.
func (c *Client) SetTheme(fontColor, cursorColor string) error {
	return c.Send(Message{Type: TypeSetTheme, FontColor: fontColor, CursorColor: cursorColor})
}
