package entity

import (
	"time"

	"github.com/google/uuid"
)

// CounselingTurn is the durable copy of one completed exchange.
type CounselingTurn struct {
	Id              uuid.UUID
	SessionId       string
	Date            string // YYYY-MM-DD, local date of the turn
	UserMessage     string
	AssistantReply  string
	DetectedEmotion string
	Stage           string
	Persona         string
	TurnNumber      int
	RAGEnhanced     bool
	CreatedAt       time.Time
}

// TurnFilter narrows archive queries. Zero values mean "any".
type TurnFilter struct {
	Date      string
	SessionId string
	Limit     int
}
