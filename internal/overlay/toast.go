package overlay

import (
	"time"

	"kazeta/internal/ipc"
)

// fadeWindow is the trailing period over which a toast's alpha ramps to
// zero before eviction (§3 "fade begins 500 ms before eviction").
const fadeWindow = 500 * time.Millisecond

// maxVisibleToasts bounds how many queued toasts VisibleToasts returns
// (§3 "only the first three are visible").
const maxVisibleToasts = 3

// Toast is one ephemeral, self-expiring notification, grounded on
// state.rs's Toast struct.
type Toast struct {
	Message   string
	Icon      string
	Style     ipc.ToastStyle
	CreatedAt time.Time
	Duration  time.Duration
}

// Alpha returns the toast's render opacity in [0,1]: 1 until the trailing
// fadeWindow before eviction, then ramping linearly to 0.
func (t Toast) Alpha(now time.Time) float64 {
	remaining := t.Duration - now.Sub(t.CreatedAt)
	if remaining <= 0 {
		return 0
	}
	if remaining >= fadeWindow {
		return 1
	}
	return float64(remaining) / float64(fadeWindow)
}

func (t Toast) expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// ToastManager is a FIFO of toasts, grounded on state.rs's ToastManager.
// The queue itself has no size cap: only VisibleToasts is bounded, to
// maxVisibleToasts entries. Newest is appended at the tail; eviction happens in
// Update, never lazily inside a getter, so Invariant 5 (a toast is never
// returned at or past its expiry) holds at every observation point that
// calls Update first.
type ToastManager struct {
	queue []Toast
}

// NewToastManager returns an empty toast queue.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Add appends a new toast to the tail of the queue.
func (m *ToastManager) Add(message, icon string, style ipc.ToastStyle, durationMS uint32) {
	m.AddAt(time.Now(), message, icon, style, durationMS)
}

// AddAt is Add with an explicit creation instant, for deterministic tests.
func (m *ToastManager) AddAt(now time.Time, message, icon string, style ipc.ToastStyle, durationMS uint32) {
	m.queue = append(m.queue, Toast{
		Message:   message,
		Icon:      icon,
		Style:     style,
		CreatedAt: now,
		Duration:  time.Duration(durationMS) * time.Millisecond,
	})
}

// Update evicts every toast whose duration has elapsed as of now, matching
// state.rs's ToastManager::update retain-predicate.
func (m *ToastManager) Update(now time.Time) {
	kept := m.queue[:0]
	for _, t := range m.queue {
		if !t.expired(now) {
			kept = append(kept, t)
		}
	}
	m.queue = kept
}

// VisibleToasts returns the first maxVisibleToasts entries in FIFO order.
func (m *ToastManager) VisibleToasts() []Toast {
	if len(m.queue) <= maxVisibleToasts {
		return append([]Toast(nil), m.queue...)
	}
	return append([]Toast(nil), m.queue[:maxVisibleToasts]...)
}

// IsEmpty reports whether the queue currently holds no toasts.
func (m *ToastManager) IsEmpty() bool {
	return len(m.queue) == 0
}
