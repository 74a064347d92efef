package entity

import "time"

// PriceBar is one day's OHLCV record for a symbol. Rows are append-only and
// unique per (symbol, date).
type PriceBar struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Symbol string    `gorm:"not null;uniqueIndex:idx_fact_price_symbol_date" json:"symbol"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_fact_price_symbol_date" json:"date"`
	Open   float64   `gorm:"not null" json:"open"`
	High   float64   `gorm:"not null" json:"high"`
	Low    float64   `gorm:"not null" json:"low"`
	Close  float64   `gorm:"not null" json:"close"`
	Volume int64     `gorm:"not null" json:"volume"`
}

func (PriceBar) TableName() string {
	return "fact_price"
}
