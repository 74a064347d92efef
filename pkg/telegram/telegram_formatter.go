package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-paper-trader/pkg/utils"
)

// ExitReason identifies why a forced sell was queued.
type ExitReason string

const (
	StopLoss      ExitReason = "STOP_LOSS"
	TakeProfit    ExitReason = "TAKE_PROFIT"
	TechnicalExit ExitReason = "TECHNICAL_EXIT"
)

// OrderLine is the notification view of a proposed order.
type OrderLine struct {
	Symbol     string
	Side       string
	LimitPrice float64
	Shares     int64
	Reason     string
}

// FormatOrdersProposed formats the pre-market proposal summary.
func FormatOrdersProposed(date time.Time, orders []OrderLine) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📬 *Orders Proposed %s*\n", date.Format(utils.DateLayout)))
	for _, o := range orders {
		b.WriteString(fmt.Sprintf("%s %s `%d` @ `%.2f` (%s)\n", o.Side, o.Symbol, o.Shares, o.LimitPrice, o.Reason))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatOrderFilled formats a settled order notification.
func FormatOrderFilled(symbol, side string, price float64, shares int64, fee, tax, totalAmount float64) string {
	icon := "🎯"
	if side == "SELL" {
		icon = "💰"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *Order Filled: %s %s*\n", icon, side, symbol))
	b.WriteString(fmt.Sprintf("Price: `%.2f`  Shares: `%d`\n", price, shares))
	b.WriteString(fmt.Sprintf("Fee: `%.0f`", fee))
	if tax > 0 {
		b.WriteString(fmt.Sprintf("  Tax: `%.0f`", tax))
	}
	b.WriteString(fmt.Sprintf("\nTotal: `%.0f`", totalAmount))
	return b.String()
}

// FormatOrderCancelled formats an unfilled order notification.
func FormatOrderCancelled(symbol, side string, limitPrice float64, shares int64) string {
	return fmt.Sprintf("⏩ *Order Cancelled: %s %s*\nLimit: `%.2f`  Shares: `%d`\nNo fill within the session range.",
		side, symbol, limitPrice, shares)
}

// FormatForcedExit formats an exit-rule trigger notification.
func FormatForcedExit(symbol string, reason ExitReason, avgCost, closePrice, roi float64) string {
	var icon string
	switch reason {
	case StopLoss:
		icon = "🛑"
	case TakeProfit:
		icon = "💰"
	default:
		icon = "📉"
	}
	return fmt.Sprintf("%s *Forced Exit Queued: %s* (%s)\nAvg Cost: `%.2f`  Close: `%.2f`  ROI: `%.2f%%`",
		icon, symbol, reason, avgCost, closePrice, roi*100)
}

// FormatDailySnapshot formats the end-of-day valuation summary.
func FormatDailySnapshot(date time.Time, cash, stockValue, totalAssets, initialCapital float64) string {
	roi := 0.0
	if initialCapital > 0 {
		roi = (totalAssets - initialCapital) / initialCapital * 100
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 *Daily Snapshot %s*\n", date.Format(utils.DateLayout)))
	b.WriteString(fmt.Sprintf("💵 Cash: `%.0f`\n", cash))
	b.WriteString(fmt.Sprintf("📈 Stock Value: `%.0f`\n", stockValue))
	b.WriteString(fmt.Sprintf("💰 Total Assets: `%.0f`\n", totalAssets))
	b.WriteString(fmt.Sprintf("🔥 ROI: `%.2f%%`", roi))
	return b.String()
}
