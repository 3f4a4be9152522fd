package state

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// Recover is the best-effort read path for a possibly-corrupted key. It
// tries the primary file, then the .backup sibling, then a truncation
// repair that retries the parse against progressively shorter line-prefixes
// of the primary content. Failure to recover reports absent rather than an
// error; graceful degradation is the whole point of this call.
func (s *Store) Recover(key string, out any) bool {
	if err := checkKey(key); err != nil {
		return false
	}

	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	content, err := os.ReadFile(s.keyPath(key))
	if os.IsNotExist(err) {
		return false
	}
	if err == nil && json.Unmarshal(content, out) == nil {
		return true
	}

	if backup, berr := os.ReadFile(s.backupPath(key)); berr == nil {
		if json.Unmarshal(backup, out) == nil {
			log.Printf("state: recovered %s from backup", key)
			return true
		}
	}

	if content != nil && repairTruncated(content, out) {
		log.Printf("state: recovered %s from truncated content", key)
		return true
	}

	return false
}

// repairTruncated retries the parse against progressively shorter
// line-prefixes of the content. Only whole well-formed leading objects are
// recoverable; a pathological single-line file yields at most one attempt.
func repairTruncated(content []byte, out any) bool {
	lines := strings.Split(string(content), "\n")
	for i := len(lines); i > 0; i-- {
		prefix := []byte(strings.Join(lines[:i], "\n"))
		var probe any
		if json.Unmarshal(prefix, &probe) != nil {
			continue
		}
		// Parse the probe-validated prefix into the caller's value; out is
		// only touched once a prefix is known to be well formed.
		return json.Unmarshal(prefix, out) == nil
	}
	return false
}
