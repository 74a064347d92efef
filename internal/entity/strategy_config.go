package entity

import "time"

type StrategyName string

const (
	StrategyMACross     StrategyName = "MA_CROSS"
	StrategyRSIReversal StrategyName = "RSI_REVERSAL"
	StrategyKDCross     StrategyName = "KD_CROSS"
	StrategyMACDCross   StrategyName = "MACD_CROSS"
	StrategyN1Momentum  StrategyName = "N1_MOMENTUM"
	StrategyBestOfThree StrategyName = "BEST_OF_3"
)

type RiskPreference string

const (
	RiskAverse  RiskPreference = "AVERSE"
	RiskNeutral RiskPreference = "NEUTRAL"
	RiskSeeking RiskPreference = "SEEKING"
)

// BudgetMultiplier returns the position-size multiplier for the preference.
func (r RiskPreference) BudgetMultiplier() float64 {
	switch r {
	case RiskAverse:
		return 0.8
	case RiskSeeking:
		return 1.2
	default:
		return 1.0
	}
}

// StrategyConfig is the user's strategy selection and risk settings. The
// engine treats it as an immutable snapshot per trading cycle.
// TakeProfitPct == 0 selects the technical (indicator-reversal) exit in place
// of a fixed take-profit.
type StrategyConfig struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	ActiveStrategy      StrategyName   `gorm:"not null" json:"active_strategy"`
	Param1              int            `gorm:"column:param_1;not null" json:"param_1"`
	Param2              int            `gorm:"column:param_2;not null" json:"param_2"`
	RiskPreference      RiskPreference `gorm:"not null" json:"risk_preference"`
	MaxPositionSize     float64        `gorm:"not null" json:"max_position_size"`
	ConfidenceThreshold float64        `gorm:"not null" json:"confidence_threshold"`
	StopLossPct         float64        `gorm:"not null" json:"stop_loss_pct"`
	TakeProfitPct       float64        `gorm:"not null" json:"take_profit_pct"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StrategyConfig) TableName() string {
	return "strategy_config"
}

// DefaultStrategyConfig returns the documented fallback used when no config
// row exists or the stored one is invalid.
func DefaultStrategyConfig() *StrategyConfig {
	return &StrategyConfig{
		ActiveStrategy:      StrategyMACross,
		Param1:              5,
		Param2:              20,
		RiskPreference:      RiskNeutral,
		MaxPositionSize:     100000,
		ConfidenceThreshold: 0.7,
		StopLossPct:         0.05,
		TakeProfitPct:       0.10,
	}
}

// Valid reports whether the stored config can drive a cycle.
func (c *StrategyConfig) Valid() bool {
	switch c.ActiveStrategy {
	case StrategyMACross, StrategyRSIReversal, StrategyKDCross,
		StrategyMACDCross, StrategyN1Momentum, StrategyBestOfThree:
	default:
		return false
	}
	if c.Param1 <= 0 || c.Param2 <= 0 {
		return false
	}
	if c.MaxPositionSize <= 0 || c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return false
	}
	return c.StopLossPct > 0
}
