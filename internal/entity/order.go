package entity

import "time"

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type OrderReason string

const (
	OrderReasonEntry         OrderReason = "ENTRY"
	OrderReasonHedge         OrderReason = "HEDGE"
	OrderReasonStopLoss      OrderReason = "STOP_LOSS"
	OrderReasonTakeProfit    OrderReason = "TAKE_PROFIT"
	OrderReasonTechnicalExit OrderReason = "TECHNICAL_EXIT"
)

// Order is a simulated limit order. It is created PENDING and transitions to
// FILLED or CANCELLED exactly once during settlement; terminal orders are
// never mutated again.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Symbol      string      `gorm:"column:stock_code;not null;index" json:"stock_code"`
	Side        OrderSide   `gorm:"column:action;not null" json:"action"`
	LimitPrice  float64     `gorm:"not null" json:"limit_price"`
	Shares      int64       `gorm:"not null" json:"shares"`
	Status      OrderStatus `gorm:"not null;index" json:"status"`
	Reason      OrderReason `gorm:"not null;default:ENTRY" json:"reason"`
	Confidence  float64     `json:"confidence"`
	Fee         float64     `json:"fee"`
	Tax         float64     `json:"tax"`
	TotalAmount float64     `json:"total_amount"`
	Date        time.Time   `gorm:"type:date;not null" json:"date"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "sim_orders"
}

// Terminal reports whether the order has reached a final state.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusFilled || o.Status == OrderStatusCancelled
}
