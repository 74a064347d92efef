package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Signal is the audit record for a strategy signal that fired during the
// pre-market phase, with the indicator values that produced it.
type Signal struct {
	ID         int64          `gorm:"primaryKey" json:"id"`
	Symbol     string         `gorm:"column:stock_code;not null;index" json:"stock_code"`
	Strategy   StrategyName   `gorm:"not null" json:"strategy"`
	Side       OrderSide      `gorm:"column:action;not null" json:"action"`
	Confidence float64        `gorm:"not null" json:"confidence"`
	LimitPrice float64        `gorm:"not null" json:"limit_price"`
	Admitted   bool           `gorm:"not null" json:"admitted"`
	Data       datatypes.JSON `gorm:"type:jsonb" json:"data"`
	Date       time.Time      `gorm:"type:date;not null" json:"date"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Signal) TableName() string {
	return "sim_signals"
}
