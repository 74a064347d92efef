package repository

import (
	"context"
	"time"

	"golang-paper-trader/internal/entity"

	"gorm.io/gorm"
)

type SignalRepository interface {
	Create(ctx context.Context, signal *entity.Signal) error
	ListByDate(ctx context.Context, date time.Time) ([]entity.Signal, error)
}

type signalRepository struct {
	db *gorm.DB
}

func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) Create(ctx context.Context, signal *entity.Signal) error {
	return r.db.WithContext(ctx).Create(signal).Error
}

func (r *signalRepository) ListByDate(ctx context.Context, date time.Time) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("id ASC").
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}
