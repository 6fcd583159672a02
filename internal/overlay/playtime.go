package overlay

import (
	"fmt"
	"time"

	"kazeta/internal/config"
)

// PlaytimeEntry is one game's accumulated playtime record (§3 "Playtime
// session"), grounded on playtime.rs's PlaytimeEntry.
type PlaytimeEntry struct {
	CartID       string `json:"cart_id"`
	TotalSeconds uint64 `json:"total_seconds"`
	LastPlayed   uint64 `json:"last_played,omitempty"`
	PlayCount    uint32 `json:"play_count"`
}

// playtimeDatabase is the on-disk document, carrying the teacher's
// config-migration `version` field.
type playtimeDatabase struct {
	Version int                      `json:"version"`
	Entries map[string]PlaytimeEntry `json:"entries"`
}

func newPlaytimeDatabase() playtimeDatabase {
	return playtimeDatabase{Version: 1, Entries: map[string]PlaytimeEntry{}}
}

// PlaytimeTracker tracks the current session and persists accumulated
// playtime to disk, grounded on playtime.rs's PlaytimeTracker. Session
// lifetime follows spec.md §3: created on StartSession, destroyed on
// EndSession (a save-on-drop guarantee the caller provides by calling
// EndSession from both game_stopped and process-exit paths).
type PlaytimeTracker struct {
	dbPath  string
	db      playtimeDatabase
	session *playtimeSession
}

type playtimeSession struct {
	cartID string
	start  time.Time
}

// NewPlaytimeTracker loads the database at dbPath (or starts empty if
// absent/corrupt, per spec.md §7's config-parse-error disposition).
func NewPlaytimeTracker(dbPath string) *PlaytimeTracker {
	db := config.LoadOrDefault(dbPath, newPlaytimeDatabase())
	if db.Entries == nil {
		db.Entries = map[string]PlaytimeEntry{}
	}
	return &PlaytimeTracker{dbPath: dbPath, db: db}
}

// StartSession begins tracking cartID, first ending (and saving) any
// pending session, matching start_session's "save any pending session
// first" guard.
func (t *PlaytimeTracker) StartSession(now time.Time, cartID string) {
	t.EndSession(now)
	t.session = &playtimeSession{cartID: cartID, start: now}
}

// EndSession closes the current session (if any), folding its elapsed
// duration into the persisted entry and saving the database, matching
// end_session/add_playtime. It is idempotent: calling it with no active
// session is a no-op (Invariant 7: play_count increases by exactly one per
// start/stop pair).
func (t *PlaytimeTracker) EndSession(now time.Time) error {
	if t.session == nil {
		return nil
	}
	s := t.session
	t.session = nil

	elapsed := uint64(now.Sub(s.start).Seconds())
	entry := t.db.Entries[s.cartID]
	entry.CartID = s.cartID
	entry.TotalSeconds += elapsed
	entry.LastPlayed = uint64(now.Unix())
	entry.PlayCount++
	t.db.Entries[s.cartID] = entry

	if err := config.Save(t.dbPath, t.db); err != nil {
		return fmt.Errorf("save playtime database: %w", err)
	}
	return nil
}

// Entry returns the persisted record for cartID, if any.
func (t *PlaytimeTracker) Entry(cartID string) (PlaytimeEntry, bool) {
	e, ok := t.db.Entries[cartID]
	return e, ok
}

// HasActiveSession reports whether a session is currently open.
func (t *PlaytimeTracker) HasActiveSession() bool { return t.session != nil }
