package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnRecordedEvent(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	e := TurnRecorded{SessionID: "s1", Date: "2026-10-16", DetectedEmotion: "우울", Stage: "initial", TurnNumber: 1, OccurredAt: at}

	var ev Event = e
	assert.Equal(t, "counseling.turn_recorded", ev.EventType())
	assert.Equal(t, at, ev.Timestamp())

	p := ev.Payload()
	assert.Equal(t, "s1", p["session_id"])
	assert.Equal(t, "우울", p["detected_emotion"])
	assert.Equal(t, 1, p["turn_number"])
	assert.Equal(t, "2026-10-16T09:30:00Z", p["occurred_at"])
}
