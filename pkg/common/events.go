package common

// PhaseEvent is the payload carried on the trading phase stream, published
// by the scheduling service and consumed by the trading service.
type PhaseEvent struct {
	Phase     string `json:"phase"`
	TradeDate string `json:"trade_date"`
}
