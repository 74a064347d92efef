package entity

import "time"

// Transaction is the append-only record of a settled order. Rows are never
// mutated after creation.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Symbol      string    `gorm:"column:stock_code;not null;index" json:"stock_code"`
	Side        OrderSide `gorm:"column:action;not null" json:"action"`
	Price       float64   `gorm:"not null" json:"price"`
	Shares      int64     `gorm:"not null" json:"shares"`
	Fee         float64   `gorm:"not null" json:"fee"`
	Tax         float64   `gorm:"not null" json:"tax"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	TradeDate   time.Time `gorm:"type:date;not null" json:"trade_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "sim_transactions"
}
