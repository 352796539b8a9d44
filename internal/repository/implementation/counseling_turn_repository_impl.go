package implementation

import (
	"context"

	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/mapper"
	"maumjari-counsel-be/internal/model"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CounselingTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CounselingTurnMapper
}

func NewCounselingTurnRepository(db *gorm.DB) contract.CounselingTurnRepository {
	return &CounselingTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewCounselingTurnMapper(),
	}
}

func (r *CounselingTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// filterSpecs translates a TurnFilter into query specifications
func filterSpecs(filter entity.TurnFilter) []specification.Specification {
	var specs []specification.Specification
	if filter.Date != "" {
		specs = append(specs, specification.ByDate{Date: filter.Date})
	}
	if filter.SessionId != "" {
		specs = append(specs, specification.BySessionID{SessionID: filter.SessionId})
	}
	return specs
}

func (r *CounselingTurnRepositoryImpl) Create(ctx context.Context, turn *entity.CounselingTurn) error {
	m := r.mapper.ToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}

func (r *CounselingTurnRepositoryImpl) FindAll(ctx context.Context, filter entity.TurnFilter) ([]*entity.CounselingTurn, error) {
	specs := append(filterSpecs(filter), specification.OrderBy{Field: "created_at"})
	if filter.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: filter.Limit})
	}

	var models []*model.CounselingTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CounselingTurnRepositoryImpl) Count(ctx context.Context, filter entity.TurnFilter) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CounselingTurn{}), filterSpecs(filter)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
