package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
)

// Snapshot is the session as it stood right after one transition.
type Snapshot struct {
	Sequence int      `json:"sequence"`
	Session  *Session `json:"session"`
	Checksum string   `json:"checksum"`
}

// Checksum returns a SHA-256 digest of the session's canonical JSON form.
// Two sessions driven by the same seed and calls produce equal checksums.
func Checksum(s *Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyChecksum reports whether snap still matches its stored checksum.
func VerifyChecksum(snap Snapshot) (bool, error) {
	computed, err := Checksum(snap.Session)
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed == snap.Checksum, nil
}

// History is the ordered list of snapshots for one session with a cursor
// for stepping through them.
type History struct {
	SessionID string
	snapshots []Snapshot
	cursor    int
	mu        sync.RWMutex
}

// NewHistory creates an empty history for sessionID.
func NewHistory(sessionID string) *History {
	return &History{SessionID: sessionID}
}

// Record appends a copy of s.
func (h *History) Record(s *Session) (Snapshot, error) {
	sum, err := Checksum(s)
	if err != nil {
		return Snapshot{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	snap := Snapshot{Sequence: len(h.snapshots), Session: s.Clone(), Checksum: sum}
	h.snapshots = append(h.snapshots, snap)
	return snap, nil
}

// Start resets the cursor to the first snapshot.
func (h *History) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cursor = 0
}

// Next returns the snapshot at the cursor and advances it.
func (h *History) Next() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < len(h.snapshots) {
		snap := h.snapshots[h.cursor]
		h.cursor++
		return copySnapshot(snap), true
	}
	return Snapshot{}, false
}

// Previous moves the cursor back and returns that snapshot.
func (h *History) Previous() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor > 0 {
		h.cursor--
		return copySnapshot(h.snapshots[h.cursor]), true
	}
	return Snapshot{}, false
}

// Skip advances the cursor by count snapshots and returns the one before the
// new cursor position.
func (h *History) Skip(count int) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if count <= 0 || len(h.snapshots) == 0 {
		return Snapshot{}, false
	}
	h.cursor += count
	if h.cursor > len(h.snapshots) {
		h.cursor = len(h.snapshots)
	}
	return copySnapshot(h.snapshots[h.cursor-1]), true
}

// Size returns the number of recorded snapshots.
func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.snapshots)
}

// At returns the snapshot at index.
func (h *History) At(index int) (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if index >= 0 && index < len(h.snapshots) {
		return copySnapshot(h.snapshots[index]), true
	}
	return Snapshot{}, false
}

// Snapshots returns copies of every snapshot in order.
func (h *History) Snapshots() []Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Snapshot, len(h.snapshots))
	for i, snap := range h.snapshots {
		out[i] = copySnapshot(snap)
	}
	return out
}

func copySnapshot(s Snapshot) Snapshot {
	s.Session = s.Session.Clone()
	return s
}
