package repository

import (
	"context"
	"time"

	"golang-paper-trader/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepository interface {
	// Upsert writes the snapshot for its date, overwriting a same-day row so
	// a rerun refreshes rather than duplicates.
	Upsert(ctx context.Context, snapshot *entity.DailySnapshot) error
	List(ctx context.Context, from, to time.Time) ([]entity.DailySnapshot, error)
	Latest(ctx context.Context) (*entity.DailySnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *entity.DailySnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"cash_balance", "stock_value", "total_assets", "updated_at"}),
	}).Create(snapshot).Error
}

func (r *snapshotRepository) List(ctx context.Context, from, to time.Time) ([]entity.DailySnapshot, error) {
	var snapshots []entity.DailySnapshot
	q := r.db.WithContext(ctx).Order("date ASC")
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}
	if err := q.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*entity.DailySnapshot, error) {
	var snapshot entity.DailySnapshot
	err := r.db.WithContext(ctx).Order("date DESC").First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
