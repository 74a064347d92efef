package service

import (
	"math"

	"golang-paper-trader/pkg/config"
)

// Costs is the fee and tax breakdown of one settled trade.
type Costs struct {
	Amount float64
	Fee    float64
	Tax    float64
}

// buyCosts returns the gross amount and brokerage fee for a BUY at price.
// The fee floors to whole currency units with a regulatory minimum.
func buyCosts(market config.Market, price float64, shares int64) Costs {
	amount := price * float64(shares)
	return Costs{
		Amount: amount,
		Fee:    brokerageFee(market, amount),
	}
}

// sellCosts returns the gross amount, brokerage fee and transaction tax for a
// SELL at price. Net proceeds are Amount - Fee - Tax.
func sellCosts(market config.Market, price float64, shares int64) Costs {
	amount := price * float64(shares)
	return Costs{
		Amount: amount,
		Fee:    brokerageFee(market, amount),
		Tax:    math.Floor(amount * market.TaxRate),
	}
}

func brokerageFee(market config.Market, amount float64) float64 {
	fee := math.Floor(amount * market.FeeRate)
	if fee < market.MinimumFee {
		return market.MinimumFee
	}
	return fee
}
