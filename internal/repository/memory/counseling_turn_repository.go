package memory

import (
	"context"
	"sync"
	"time"

	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/repository/contract"

	"github.com/google/uuid"
)

// DefaultArchiveCapacity bounds the in-memory archive used when no database is configured.
const DefaultArchiveCapacity = 10000

// CounselingTurnRepository is the process-local turn archive. The oldest
// turns are dropped once capacity is reached.
type CounselingTurnRepository struct {
	mu       sync.RWMutex
	turns    []*entity.CounselingTurn
	capacity int
}

var _ contract.CounselingTurnRepository = (*CounselingTurnRepository)(nil)

func NewCounselingTurnRepository(capacity int) *CounselingTurnRepository {
	if capacity <= 0 {
		capacity = DefaultArchiveCapacity
	}
	return &CounselingTurnRepository{capacity: capacity}
}

func (r *CounselingTurnRepository) Create(ctx context.Context, turn *entity.CounselingTurn) error {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	stored := *turn

	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, &stored)
	if over := len(r.turns) - r.capacity; over > 0 {
		r.turns = append([]*entity.CounselingTurn(nil), r.turns[over:]...)
	}
	return nil
}

func (r *CounselingTurnRepository) FindAll(ctx context.Context, filter entity.TurnFilter) ([]*entity.CounselingTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.CounselingTurn
	for _, t := range r.turns {
		if !matches(t, filter) {
			continue
		}
		c := *t
		out = append(out, &c)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *CounselingTurnRepository) Count(ctx context.Context, filter entity.TurnFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, t := range r.turns {
		if matches(t, filter) {
			n++
		}
	}
	return n, nil
}

func matches(t *entity.CounselingTurn, filter entity.TurnFilter) bool {
	if filter.Date != "" && t.Date != filter.Date {
		return false
	}
	if filter.SessionId != "" && t.SessionId != filter.SessionId {
		return false
	}
	return true
}
