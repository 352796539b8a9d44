package unitofwork

import (
	"context"

	"maumjari-counsel-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CounselingTurnRepository() contract.CounselingTurnRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
