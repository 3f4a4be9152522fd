// Package state implements the file-backed store that independent worker
// processes use to coordinate pipeline progress. Each key is one JSON file in
// the state directory; writes are whole-file replacements, and
// WriteWithBackup copies the current file aside first so an interrupted
// write costs at most one generation of data. There is no inter-process
// locking: callers own their keys by convention and must treat every read as
// possibly stale.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/t2dkit/t2d/internal/lock"
)

const (
	stateExt  = ".json"
	backupExt = ".json.backup"
)

var validKey = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Store is a keyed JSON blob store rooted at a single directory. The
// directory is an explicit constructor argument; there is no process-wide
// default.
type Store struct {
	dir   string
	locks *lock.MutexMap
}

// NewStore creates the state directory if needed and returns a store over
// it.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir, locks: lock.NewMutexMap()}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) keyPath(key string) string {
	return filepath.Join(s.dir, key+stateExt)
}

func (s *Store) backupPath(key string) string {
	return filepath.Join(s.dir, key+backupExt)
}

func checkKey(key string) error {
	if !validKey.MatchString(key) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid state key %q", key)
	}
	return nil
}

// Write marshals value and atomically replaces the key's file: the content
// lands in a temp file first, is fsynced, then renamed over the target.
func (s *Store) Write(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}

	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	s.locks.Lock(key)
	defer s.locks.Unlock(key)
	return s.replaceFile(s.keyPath(key), content)
}

// WriteWithBackup copies the key's current file to its .backup sibling
// before writing, bounding data loss from a write interrupted mid-flight.
func (s *Store) WriteWithBackup(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}

	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	path := s.keyPath(key)
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, s.backupPath(key)); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}
	return s.replaceFile(path, content)
}

// Read unmarshals the key's file into out. The second return is false when
// the key is absent.
func (s *Store) Read(key string, out any) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	content, err := os.ReadFile(s.keyPath(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read state %s: %w", key, err)
	}
	if err := json.Unmarshal(content, out); err != nil {
		return false, fmt.Errorf("parse state %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the key's file and its backup. Returns true when the
// primary file existed.
func (s *Store) Delete(key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	err := os.Remove(s.keyPath(key))
	if os.IsNotExist(err) {
		_ = os.Remove(s.backupPath(key))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete state %s: %w", key, err)
	}
	_ = os.Remove(s.backupPath(key))
	return true, nil
}

// ListKeys returns every key in the store, sorted. Backup siblings are not
// keys.
func (s *Store) ListKeys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read state dir: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, backupExt) || !strings.HasSuffix(name, stateExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, stateExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// CleanupOlderThan removes state files (and their backups) whose
// modification time is older than the given number of days, returning how
// many keys were removed.
func (s *Store) CleanupOlderThan(days int) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read state dir: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, stateExt) || strings.HasSuffix(name, backupExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			key := strings.TrimSuffix(name, stateExt)
			if _, err := s.Delete(key); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// replaceFile writes content to a temp file in the same directory, fsyncs
// it, and renames it over path. Rename is atomic on same-volume POSIX
// filesystems, which is what keeps concurrent writers at "last write wins"
// instead of corruption.
func (s *Store) replaceFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".t2d-tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0644)
}
