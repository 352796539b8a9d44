package service

import (
	"context"
	"encoding/json"
	"time"

	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	archiveAttempts   = 3
	archiveRetryDelay = 200 * time.Millisecond
	forwardTimeout    = 3 * time.Second
)

// EventForwarder ships events to another bus; pkg/nats.Publisher satisfies it.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event, msgID string) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	archive    contract.CounselingTurnRepository
	forwarder  EventForwarder
	turnLogger logger.ILogger
	logger     logger.ILogger
}

// NewConsumerService archives turn-recorded events. forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	archive contract.CounselingTurnRepository,
	forwarder EventForwarder,
	turnLogger logger.ILogger,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		archive:    archive,
		forwarder:  forwarder,
		turnLogger: turnLogger,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.TurnRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal turn event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	turn := &entity.CounselingTurn{
		Id:              uuid.New(),
		SessionId:       event.SessionID,
		Date:            event.Date,
		UserMessage:     event.UserMessage,
		AssistantReply:  event.AssistantReply,
		DetectedEmotion: event.DetectedEmotion,
		Stage:           event.Stage,
		Persona:         event.Persona,
		TurnNumber:      event.TurnNumber,
		RAGEnhanced:     event.RAGEnhanced,
		CreatedAt:       event.OccurredAt,
	}

	if err := cs.archiveTurn(ctx, turn); err != nil {
		cs.logger.Error("ConsumerService", "Failed to archive turn", map[string]interface{}{
			"session_id":  event.SessionID,
			"turn_number": event.TurnNumber,
			"error":       err.Error(),
		})
	}

	cs.turnLogger.Info("TurnArchive", "Turn recorded", event.Payload())

	if cs.forwarder != nil {
		fctx, cancel := context.WithTimeout(ctx, forwardTimeout)
		if err := cs.forwarder.Publish(fctx, event, msg.UUID); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward turn event", map[string]interface{}{
				"message_id": msg.UUID,
				"error":      err.Error(),
			})
		}
		cancel()
	}

	msg.Ack()
}

// archiveTurn retries in place; the message is acked either way.
func (cs *consumerService) archiveTurn(ctx context.Context, turn *entity.CounselingTurn) error {
	var err error
	for attempt := 1; attempt <= archiveAttempts; attempt++ {
		if err = cs.archive.Create(ctx, turn); err == nil {
			return nil
		}
		if attempt == archiveAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(archiveRetryDelay):
		}
	}
	return err
}
