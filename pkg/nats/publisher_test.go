package nats

import (
	"testing"

	"maumjari-counsel-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.counseling.turn_recorded", Subject(events.TypeTurnRecorded))
}

func TestNewPublisherUnreachable(t *testing.T) {
	_, err := NewPublisher("nats://127.0.0.1:1")
	assert.Error(t, err)
}
