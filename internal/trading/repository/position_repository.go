package repository

import (
	"context"

	"golang-paper-trader/internal/entity"

	"gorm.io/gorm"
)

type PositionRepository interface {
	GetAll(ctx context.Context) ([]entity.Position, error)
	// GetBySymbol returns nil when no position is held.
	GetBySymbol(ctx context.Context, symbol string) (*entity.Position, error)
	Save(ctx context.Context, position *entity.Position) error
	Delete(ctx context.Context, symbol string) error
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) GetAll(ctx context.Context) ([]entity.Position, error) {
	var positions []entity.Position
	if err := r.db.WithContext(ctx).Order("stock_code ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Position, error) {
	var position entity.Position
	err := r.db.WithContext(ctx).Where("stock_code = ?", symbol).First(&position).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) Save(ctx context.Context, position *entity.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *positionRepository) Delete(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).Where("stock_code = ?", symbol).Delete(&entity.Position{}).Error
}
