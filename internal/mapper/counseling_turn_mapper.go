package mapper

import (
	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/model"
)

type CounselingTurnMapper struct{}

func NewCounselingTurnMapper() *CounselingTurnMapper {
	return &CounselingTurnMapper{}
}

func (m *CounselingTurnMapper) ToEntity(t *model.CounselingTurn) *entity.CounselingTurn {
	if t == nil {
		return nil
	}
	return &entity.CounselingTurn{
		Id:              t.Id,
		SessionId:       t.SessionId,
		Date:            t.Date,
		UserMessage:     t.UserMessage,
		AssistantReply:  t.AssistantReply,
		DetectedEmotion: t.DetectedEmotion,
		Stage:           t.Stage,
		Persona:         t.Persona,
		TurnNumber:      t.TurnNumber,
		RAGEnhanced:     t.RAGEnhanced,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *CounselingTurnMapper) ToModel(t *entity.CounselingTurn) *model.CounselingTurn {
	if t == nil {
		return nil
	}
	return &model.CounselingTurn{
		Id:              t.Id,
		SessionId:       t.SessionId,
		Date:            t.Date,
		UserMessage:     t.UserMessage,
		AssistantReply:  t.AssistantReply,
		DetectedEmotion: t.DetectedEmotion,
		Stage:           t.Stage,
		Persona:         t.Persona,
		TurnNumber:      t.TurnNumber,
		RAGEnhanced:     t.RAGEnhanced,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *CounselingTurnMapper) ToEntities(turns []*model.CounselingTurn) []*entity.CounselingTurn {
	entities := make([]*entity.CounselingTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
