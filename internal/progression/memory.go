package progression

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository keeps snapshots in process memory.
type MemoryRepository struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snaps: make(map[string]Snapshot)}
}

// LoadStats implements Repository.
func (r *MemoryRepository) LoadStats(_ context.Context, userID string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.snaps[userID]
	if !ok {
		return Snapshot{Stats: NewStats()}, nil
	}
	return Snapshot{Stats: snap.Stats.Clone(), Version: snap.Version}, nil
}

// SaveStats implements Repository.
func (r *MemoryRepository) SaveStats(_ context.Context, userID string, stats UserStats, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.snaps[userID].Version
	if current != expectedVersion {
		return fmt.Errorf("%w: have %d, expected %d", ErrVersionConflict, current, expectedVersion)
	}
	r.snaps[userID] = Snapshot{Stats: stats.Clone(), Version: current + 1}
	return nil
}
