package memory

import (
	"context"
	"time"

	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// HistoryRepository keeps each session's turns in process memory with the
// same idle expiry as the session record.
type HistoryRepository struct {
	cache *cache.Cache
	locks stripedLock
}

var _ contract.HistoryStore = (*HistoryRepository)(nil)

func NewHistoryRepository(ttl, cleanupInterval time.Duration) *HistoryRepository {
	return &HistoryRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *HistoryRepository) load(id string) []store.TurnRecord {
	if x, found := r.cache.Get(id); found {
		return x.([]store.TurnRecord)
	}
	return nil
}

func (r *HistoryRepository) Append(ctx context.Context, id string, turn store.TurnRecord) (store.TurnRecord, error) {
	mu := r.locks.forKey(id)
	mu.Lock()
	defer mu.Unlock()

	turns := r.load(id)
	turn.TurnNumber = len(turns) + 1

	// copy-on-write so readers holding the old slice never observe the append
	next := make([]store.TurnRecord, len(turns), len(turns)+1)
	copy(next, turns)
	next = append(next, turn)

	r.cache.Set(id, next, cache.DefaultExpiration)
	return turn, nil
}

func (r *HistoryRepository) Recent(ctx context.Context, id string, n int) ([]store.TurnRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	turns := r.load(id)
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]store.TurnRecord, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *HistoryRepository) All(ctx context.Context, id string) ([]store.TurnRecord, error) {
	turns := r.load(id)
	out := make([]store.TurnRecord, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *HistoryRepository) Len(ctx context.Context, id string) (int, error) {
	return len(r.load(id)), nil
}
