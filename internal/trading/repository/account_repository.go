package repository

import (
	"context"

	"golang-paper-trader/internal/entity"

	"gorm.io/gorm"
)

type AccountRepository interface {
	// Get returns the single simulated account row, creating it with the
	// given initial capital when missing.
	Get(ctx context.Context, initialCapital float64) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, initialCapital float64) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).Order("id ASC").First(&account).Error
	if err == gorm.ErrRecordNotFound {
		account = entity.Account{
			CashBalance: initialCapital,
			TotalAsset:  initialCapital,
		}
		if err := r.db.WithContext(ctx).Create(&account).Error; err != nil {
			return nil, err
		}
		return &account, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
