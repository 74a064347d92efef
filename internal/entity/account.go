package entity

import "time"

// Account is the single simulated cash account. CashBalance carries the
// reservations made at order-proposal time; TotalAsset is recomputed from
// scratch at snapshot time, never incrementally tracked.
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CashBalance float64   `gorm:"not null" json:"cash_balance"`
	TotalAsset  float64   `gorm:"not null" json:"total_asset"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "sim_account"
}
