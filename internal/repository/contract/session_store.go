package contract

import (
	"context"

	"maumjari-counsel-be/pkg/store"
)

// SessionStore keeps per-session counseling progress.
type SessionStore interface {
	// Find returns nil, nil for an unknown id and never creates a record.
	Find(ctx context.Context, id string) (*store.CounselingSession, error)
	// Update loads or creates the record, applies fn and saves the result.
	// Calls for the same id are serialized.
	Update(ctx context.Context, id string, fn func(*store.CounselingSession) error) (*store.CounselingSession, error)
}

// HistoryStore keeps the append-only turn list of each session.
type HistoryStore interface {
	// Append assigns TurnNumber = len+1 and returns the stored turn.
	Append(ctx context.Context, id string, turn store.TurnRecord) (store.TurnRecord, error)
	Recent(ctx context.Context, id string, n int) ([]store.TurnRecord, error)
	All(ctx context.Context, id string) ([]store.TurnRecord, error)
	Len(ctx context.Context, id string) (int, error)
}
