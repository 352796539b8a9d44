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

// HistoryStore keeps each session's turns as a JSON list in Redis.
type HistoryStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.HistoryStore = (*HistoryStore)(nil)

func NewHistoryStore(rdb *redis.Client, ttl time.Duration) *HistoryStore {
	return &HistoryStore{rdb: rdb, ttl: ttl}
}

func historyKey(id string) string {
	return historyKeyPrefix + id
}

func (h *HistoryStore) Append(ctx context.Context, id string, turn store.TurnRecord) (store.TurnRecord, error) {
	key := historyKey(id)

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		var stored store.TurnRecord

		err := h.rdb.Watch(ctx, func(tx *redis.Tx) error {
			n, err := tx.LLen(ctx, key).Result()
			if err != nil {
				return err
			}
			stored = turn
			stored.TurnNumber = int(n) + 1

			payload, err := json.Marshal(stored)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.RPush(ctx, key, payload)
				pipe.Expire(ctx, key, h.ttl)
				return nil
			})
			return err
		}, key)

		if err == nil {
			return stored, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return store.TurnRecord{}, fmt.Errorf("append history %s: %w", id, err)
	}
	return store.TurnRecord{}, ErrTooMuchContention
}

func (h *HistoryStore) Recent(ctx context.Context, id string, n int) ([]store.TurnRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	return h.rangeTurns(ctx, id, int64(-n), -1)
}

func (h *HistoryStore) All(ctx context.Context, id string) ([]store.TurnRecord, error) {
	return h.rangeTurns(ctx, id, 0, -1)
}

func (h *HistoryStore) Len(ctx context.Context, id string) (int, error) {
	n, err := h.rdb.LLen(ctx, historyKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("history length %s: %w", id, err)
	}
	return int(n), nil
}

func (h *HistoryStore) rangeTurns(ctx context.Context, id string, start, stop int64) ([]store.TurnRecord, error) {
	raw, err := h.rdb.LRange(ctx, historyKey(id), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", id, err)
	}

	turns := make([]store.TurnRecord, 0, len(raw))
	for _, item := range raw {
		var t store.TurnRecord
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("decode history %s: %w", id, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}
