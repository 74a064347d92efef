package entity

import "time"

// Position is a per-symbol holding with its weighted-average cost. A row
// exists only while shares > 0; selling a position down to zero deletes it.
// AvgCost is updated on BUY fills only.
type Position struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"column:stock_code;not null;uniqueIndex" json:"stock_code"`
	Shares    int64     `gorm:"not null" json:"shares"`
	AvgCost   float64   `gorm:"not null" json:"avg_cost"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "sim_inventory"
}

// ROI returns (close − avg cost) / avg cost for the given close.
func (p *Position) ROI(closePrice float64) float64 {
	if p.AvgCost == 0 {
		return 0
	}
	return (closePrice - p.AvgCost) / p.AvgCost
}
