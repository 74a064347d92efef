package entity

import "time"

// DailySnapshot is the end-of-day mark-to-market of the account. One row per
// calendar date; recomputing a date overwrites the existing row.
type DailySnapshot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	CashBalance float64   `gorm:"not null" json:"cash_balance"`
	StockValue  float64   `gorm:"not null" json:"stock_value"`
	TotalAssets float64   `gorm:"not null" json:"total_assets"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailySnapshot) TableName() string {
	return "sim_daily_assets"
}
