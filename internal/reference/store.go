package reference

import (
	"sync/atomic"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Store holds the current snapshot. Readers obtain an immutable handle with
// Load at request start and keep using it even if Replace runs meanwhile.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load returns the current snapshot or domain.ErrSnapshotUnavailable before
// the first Replace.
func (s *Store) Load() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrSnapshotUnavailable
	}
	return snap, nil
}

// Replace atomically installs snap as the current snapshot.
func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
}
