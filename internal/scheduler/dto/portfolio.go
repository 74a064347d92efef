package dto

import "time"

// ErrorResponse is the generic API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PositionResponse is one holding marked to the latest cached price.
type PositionResponse struct {
	Symbol      string  `json:"symbol"`
	Shares      int64   `json:"shares"`
	AvgCost     float64 `json:"avg_cost"`
	LastPrice   float64 `json:"last_price"`
	MarketValue float64 `json:"market_value"`
	ROI         float64 `json:"roi"`
}

// SummaryResponse is the portfolio overview.
type SummaryResponse struct {
	CashBalance    float64            `json:"cash_balance"`
	StockValue     float64            `json:"stock_value"`
	TotalAssets    float64            `json:"total_assets"`
	InitialCapital float64            `json:"initial_capital"`
	ROI            float64            `json:"roi"`
	Positions      []PositionResponse `json:"positions"`
}

// SnapshotResponse is one day's asset valuation.
type SnapshotResponse struct {
	Date        string  `json:"date"`
	CashBalance float64 `json:"cash_balance"`
	StockValue  float64 `json:"stock_value"`
	TotalAssets float64 `json:"total_assets"`
}

// OrderResponse is one simulated order.
type OrderResponse struct {
	ID          uint      `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        string    `json:"side"`
	LimitPrice  float64   `json:"limit_price"`
	Shares      int64     `json:"shares"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	Confidence  float64   `json:"confidence"`
	Fee         float64   `json:"fee"`
	Tax         float64   `json:"tax"`
	TotalAmount float64   `json:"total_amount"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionResponse is one settled trade.
type TransactionResponse struct {
	ID          uint    `json:"id"`
	OrderID     uint    `json:"order_id"`
	Symbol      string  `json:"symbol"`
	Side        string  `json:"side"`
	Price       float64 `json:"price"`
	Shares      int64   `json:"shares"`
	Fee         float64 `json:"fee"`
	Tax         float64 `json:"tax"`
	TotalAmount float64 `json:"total_amount"`
	TradeDate   string  `json:"trade_date"`
}

// StrategyConfigResponse mirrors the stored strategy settings.
type StrategyConfigResponse struct {
	ActiveStrategy      string  `json:"active_strategy"`
	Param1              int     `json:"param_1"`
	Param2              int     `json:"param_2"`
	RiskPreference      string  `json:"risk_preference"`
	MaxPositionSize     float64 `json:"max_position_size"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	StopLossPct         float64 `json:"stop_loss_pct"`
	TakeProfitPct       float64 `json:"take_profit_pct"`
}

// UpdateStrategyConfigRequest replaces the strategy settings. All fields are
// required; the engine validates them before the next cycle.
type UpdateStrategyConfigRequest struct {
	ActiveStrategy      string  `json:"active_strategy"`
	Param1              int     `json:"param_1"`
	Param2              int     `json:"param_2"`
	RiskPreference      string  `json:"risk_preference"`
	MaxPositionSize     float64 `json:"max_position_size"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	StopLossPct         float64 `json:"stop_loss_pct"`
	TakeProfitPct       float64 `json:"take_profit_pct"`
}
