package session

import (
	"context"

	"maumjari-counsel-be/pkg/counsel/persona"
	"maumjari-counsel-be/pkg/counsel/stage"
	"maumjari-counsel-be/pkg/store"
)

// Store is the persistence the manager needs. Update must serialize calls
// for the same id and create the record when it does not exist yet.
type Store interface {
	Find(ctx context.Context, id string) (*store.CounselingSession, error)
	Update(ctx context.Context, id string, fn func(*store.CounselingSession) error) (*store.CounselingSession, error)
}

// Manager owns the progression rules applied to a session on each turn.
type Manager struct {
	store Store
}

func NewManager(s Store) *Manager {
	return &Manager{store: s}
}

// Find returns nil, nil for an unknown id.
func (m *Manager) Find(ctx context.Context, id string) (*store.CounselingSession, error) {
	return m.store.Find(ctx, id)
}

// GetOrCreate returns the session, creating it with defaults when unseen.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*store.CounselingSession, error) {
	return m.store.Update(ctx, id, func(*store.CounselingSession) error { return nil })
}

// RecordTurn counts one inbound message and returns the updated record.
func (m *Manager) RecordTurn(ctx context.Context, id, emotion, personaOverride string) (*store.CounselingSession, error) {
	return m.store.Update(ctx, id, func(s *store.CounselingSession) error {
		Apply(s, emotion, personaOverride)
		return nil
	})
}

// Apply mutates s for one inbound message: the turn count grows by one, a
// new emotion label is appended, the stage advances at most one step and a
// known persona override replaces the current persona.
func Apply(s *store.CounselingSession, emotion, personaOverride string) {
	s.TurnCount++
	if emotion != "" && !s.HasEmotion(emotion) {
		s.Emotions = append(s.Emotions, emotion)
	}
	s.Stage = stage.Advance(s.Stage, s.TurnCount)
	if p, ok := persona.Lookup(personaOverride); ok {
		s.Persona = p.Key
	}
}
