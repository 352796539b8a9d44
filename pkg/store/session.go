package store

import (
	"time"

	"maumjari-counsel-be/pkg/counsel/persona"
	"maumjari-counsel-be/pkg/counsel/stage"
)

// Document is a retrieved knowledge passage
type Document struct {
	ID       string                 `json:"id"`
	Source   string                 `json:"source"`
	Page     int                    `json:"page"`
	Content  string                 `json:"content"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// CounselingSession is the per-session counseling progress record
type CounselingSession struct {
	ID               string      `json:"id"`
	Stage            stage.Stage `json:"stage"`
	TurnCount        int         `json:"turn_count"`
	IdentifiedIssues []string    `json:"identified_issues"`
	Emotions         []string    `json:"emotions"`
	Persona          persona.Key `json:"persona"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewCounselingSession returns a record with the initial defaults.
func NewCounselingSession(id string, now time.Time) *CounselingSession {
	return &CounselingSession{
		ID:               id,
		Stage:            stage.Initial,
		TurnCount:        0,
		IdentifiedIssues: []string{},
		Emotions:         []string{},
		Persona:          persona.Default,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Clone returns a deep copy so callers never share slices with a store.
func (s *CounselingSession) Clone() *CounselingSession {
	if s == nil {
		return nil
	}
	c := *s
	c.IdentifiedIssues = append([]string{}, s.IdentifiedIssues...)
	c.Emotions = append([]string{}, s.Emotions...)
	return &c
}

// HasEmotion reports whether label was already observed in this session.
func (s *CounselingSession) HasEmotion(label string) bool {
	for _, e := range s.Emotions {
		if e == label {
			return true
		}
	}
	return false
}

// TurnRecord is one completed exchange in a session's conversation history
type TurnRecord struct {
	Timestamp       time.Time   `json:"timestamp"`
	UserText        string      `json:"user"`
	AssistantText   string      `json:"assistant"`
	DetectedEmotion string      `json:"detected_emotion"`
	StageAtTime     stage.Stage `json:"counseling_stage"`
	TurnNumber      int         `json:"turn_number"`
	RAGEnhanced     bool        `json:"rag_enhanced"`
}
