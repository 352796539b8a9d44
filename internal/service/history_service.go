package service

import (
	"context"
	"fmt"
	"time"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/repository/contract"
)

type IHistoryService interface {
	ByDate(ctx context.Context, date string) (*dto.ChatHistoryByDateResponse, error)
	Grouped(ctx context.Context) (*dto.ChatHistoryGroupedResponse, error)
}

type historyService struct {
	archive contract.CounselingTurnRepository
}

func NewHistoryService(archive contract.CounselingTurnRepository) IHistoryService {
	return &historyService{archive: archive}
}

func (hs *historyService) ByDate(ctx context.Context, date string) (*dto.ChatHistoryByDateResponse, error) {
	turns, err := hs.archive.FindAll(ctx, entity.TurnFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("load chat history for %s: %w", date, err)
	}

	chats := make([]*dto.ChatHistoryItem, 0, len(turns))
	for _, t := range turns {
		chats = append(chats, toHistoryItem(t))
	}

	return &dto.ChatHistoryByDateResponse{
		Date:  date,
		Chats: chats,
		Count: len(chats),
	}, nil
}

func (hs *historyService) Grouped(ctx context.Context) (*dto.ChatHistoryGroupedResponse, error) {
	turns, err := hs.archive.FindAll(ctx, entity.TurnFilter{})
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	grouped := make(map[string][]*dto.ChatHistoryItem)
	for _, t := range turns {
		grouped[t.Date] = append(grouped[t.Date], toHistoryItem(t))
	}

	return &dto.ChatHistoryGroupedResponse{ChatHistory: grouped}, nil
}

func toHistoryItem(t *entity.CounselingTurn) *dto.ChatHistoryItem {
	return &dto.ChatHistoryItem{
		Date:            t.Date,
		Timestamp:       t.CreatedAt.Format(time.RFC3339),
		SessionId:       t.SessionId,
		UserMessage:     t.UserMessage,
		AssistantReply:  t.AssistantReply,
		DetectedEmotion: t.DetectedEmotion,
		CounselingStage: t.Stage,
	}
}
