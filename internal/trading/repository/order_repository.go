package repository

import (
	"context"
	"time"

	"golang-paper-trader/internal/entity"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetPending returns all PENDING orders in creation order so settlement
	// is deterministic.
	GetPending(ctx context.Context) ([]entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	// HasOpen reports whether symbol already has a pending order of side.
	HasOpen(ctx context.Context, symbol string, side entity.OrderSide) (bool, error)
	List(ctx context.Context, limit, offset int) ([]entity.Order, error)
	ListByDate(ctx context.Context, date time.Time) ([]entity.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetPending(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.OrderStatusPending).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) HasOpen(ctx context.Context, symbol string, side entity.OrderSide) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("stock_code = ? AND action = ? AND status = ?", symbol, side, entity.OrderStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListByDate(ctx context.Context, date time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
