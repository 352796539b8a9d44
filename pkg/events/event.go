package events

import "time"

// Event is anything the publisher service can put on the bus.
type Event interface {
	// EventType is copied into the "event_type" message metadata.
	EventType() string

	// Payload is the JSON body of the message.
	Payload() map[string]interface{}

	Timestamp() time.Time
}
