package memory

import (
	"context"
	"time"

	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps counseling sessions in process memory. Records
// expire after ttl without a mutation.
type SessionRepository struct {
	cache *cache.Cache
	locks stripedLock
	now   func() time.Time
}

var _ contract.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
		now:   time.Now,
	}
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*store.CounselingSession, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*store.CounselingSession).Clone(), nil
	}
	return nil, nil
}

func (r *SessionRepository) Update(ctx context.Context, id string, fn func(*store.CounselingSession) error) (*store.CounselingSession, error) {
	mu := r.locks.forKey(id)
	mu.Lock()
	defer mu.Unlock()

	now := r.now()
	var rec *store.CounselingSession
	if x, found := r.cache.Get(id); found {
		rec = x.(*store.CounselingSession).Clone()
	} else {
		rec = store.NewCounselingSession(id, now)
	}

	if err := fn(rec); err != nil {
		return nil, err
	}
	rec.UpdatedAt = now

	r.cache.Set(id, rec.Clone(), cache.DefaultExpiration)
	return rec, nil
}
