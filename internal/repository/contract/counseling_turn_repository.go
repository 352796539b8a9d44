package contract

import (
	"context"

	"maumjari-counsel-be/internal/entity"
)

type CounselingTurnRepository interface {
	Create(ctx context.Context, turn *entity.CounselingTurn) error
	FindAll(ctx context.Context, filter entity.TurnFilter) ([]*entity.CounselingTurn, error)
	Count(ctx context.Context, filter entity.TurnFilter) (int64, error)
}
