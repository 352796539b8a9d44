package unitofwork

import "context"

// RepositoryFactory opens a unit of work for transactional knowledge ingest.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
