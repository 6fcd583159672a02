// Package config loads and saves the overlay's persisted JSON configuration
// objects (hotkeys, menu, theme), grounded on the teacher's
// internal/config directory-resolution pattern: an env-var override first,
// then a fixed per-user data directory, with a version field on every
// document for forward migration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// Load reads the JSON document at path into v. If the file does not exist,
// it is treated as "use defaults" (v is left untouched) rather than an
// error — a fresh install has no config yet. A parse error is non-fatal per
// spec.md §7 ("Persisted config parse error... fall back to in-memory
// defaults; attempt to save defaults over the corrupted file"): Load
// returns the error so the caller can apply that fallback and re-save.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Save writes v to path as pretty-printed JSON, guarded by an exclusive
// flock so a concurrent writer (another daemon instance, a crash-recovery
// re-save) never interleaves partial writes, matching the teacher's
// acquireExclusiveLock pattern in internal/config/routes.go.
func Save(path string, v any) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock config %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config %s: %w", path, err)
	}
	return nil
}

// LoadOrDefault loads path into v; on a missing file it leaves v as its
// caller-supplied zero/default value. On a parse error it resets v to
// defaultVal, attempts to persist that over the corrupted file (best
// effort — a failed re-save does not block startup), and returns defaultVal
// so the daemon continues with in-memory defaults rather than dying.
func LoadOrDefault[T any](path string, defaultVal T) T {
	v := defaultVal
	if err := Load(path, &v); err != nil {
		v = defaultVal
		_ = Save(path, v)
		return defaultVal
	}
	return v
}
