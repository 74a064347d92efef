package common

const (
	RedisStreamTradingPhase = "trading.phase"

	RedisStreamGroup    = "trading-group"
	RedisStreamConsumer = "trading-consumer"

	// RedisKeyLastPrice caches the latest settled close per symbol.
	RedisKeyLastPrice = "last_price:%s"
)

// Trading phases published by the scheduler and consumed by the engine.
const (
	PhasePreMarket  = "PRE_MARKET"
	PhasePostMarket = "POST_MARKET"
)
