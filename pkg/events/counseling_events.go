package events

import "time"

const TypeTurnRecorded = "counseling.turn_recorded"

// TurnRecorded is emitted after a generated counseling turn is stored.
type TurnRecorded struct {
	SessionID       string    `json:"session_id"`
	Date            string    `json:"date"`
	UserMessage     string    `json:"user_message"`
	AssistantReply  string    `json:"assistant_reply"`
	DetectedEmotion string    `json:"detected_emotion"`
	Stage           string    `json:"counseling_stage"`
	Persona         string    `json:"persona"`
	TurnNumber      int       `json:"turn_number"`
	RAGEnhanced     bool      `json:"rag_enhanced"`
	OccurredAt      time.Time `json:"occurred_at"`
}

var _ Event = TurnRecorded{}

func (e TurnRecorded) EventType() string {
	return TypeTurnRecorded
}

func (e TurnRecorded) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":       e.SessionID,
		"date":             e.Date,
		"user_message":     e.UserMessage,
		"assistant_reply":  e.AssistantReply,
		"detected_emotion": e.DetectedEmotion,
		"counseling_stage": e.Stage,
		"persona":          e.Persona,
		"turn_number":      e.TurnNumber,
		"rag_enhanced":     e.RAGEnhanced,
		"occurred_at":      e.OccurredAt.Format(time.RFC3339),
	}
}

func (e TurnRecorded) Timestamp() time.Time {
	return e.OccurredAt
}
