package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "counsel:session:"
	historyKeyPrefix = "counsel:history:"

	// optimistic transactions give up after this many conflicting writers
	maxWatchRetries = 10
)

var ErrTooMuchContention = errors.New("redis: too much contention on session key")

// SessionStore keeps counseling sessions in Redis so several instances can
// share them. Each mutation refreshes the key TTL.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

var _ contract.SessionStore = (*SessionStore)(nil)

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *SessionStore) Find(ctx context.Context, id string) (*store.CounselingSession, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var rec store.CounselingSession
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SessionStore) Update(ctx context.Context, id string, fn func(*store.CounselingSession) error) (*store.CounselingSession, error) {
	key := sessionKey(id)

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		var result *store.CounselingSession

		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			now := s.now()
			rec := store.NewCounselingSession(id, now)

			data, err := tx.Get(ctx, key).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return err
			default:
				if err := json.Unmarshal(data, rec); err != nil {
					return fmt.Errorf("decode session %s: %w", id, err)
				}
			}

			if err := fn(rec); err != nil {
				return err
			}
			rec.UpdatedAt = now

			payload, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, s.ttl)
				return nil
			})
			if err != nil {
				return err
			}
			result = rec
			return nil
		}, key)

		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrTooMuchContention
}
