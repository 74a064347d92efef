package service

import (
	"context"
	"encoding/json"
	"time"

	"golang-paper-trader/internal/trading/config"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// PhaseService consumes trading-phase messages and dispatches them to the
// pre-market and post-market cycles.
type PhaseService interface {
	ProcessPhase(ctx context.Context)
}

type phaseService struct {
	cfg               *config.Config
	redisClient       *redis.Client
	signalService     SignalService
	settlementService SettlementService
	logger            *logger.Logger
}

func NewPhaseService(
	cfg *config.Config,
	redisClient *redis.Client,
	signalService SignalService,
	settlementService SettlementService,
	log *logger.Logger,
) PhaseService {
	return &phaseService{
		cfg:               cfg,
		redisClient:       redisClient,
		signalService:     signalService,
		settlementService: settlementService,
		logger:            log,
	}
}

// ProcessPhase dequeues and executes a single phase message.
func (s *phaseService) ProcessPhase(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamTradingPhase, ">"},
		Count:    1,
		Block:    2 * time.Second, // short block to allow graceful shutdown
		NoAck:    true,
	}).Result()

	if err != nil {
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	payload, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var phase common.PhaseEvent
	if err := json.Unmarshal([]byte(payload), &phase); err != nil {
		s.logger.Error("Failed to unmarshal phase message", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	tradeDate, err := time.ParseInLocation(utils.DateLayout, phase.TradeDate, utils.TimeNowTaipei().Location())
	if err != nil {
		s.logger.Error("Invalid trade date in phase message", logger.ErrorField(err), logger.Field("trade_date", phase.TradeDate))
		return
	}

	cycleCtx, cancel := context.WithTimeout(ctx, s.cfg.Trading.CycleTimeout)
	defer cancel()

	s.logger.Info("Processing trading phase",
		logger.Field("phase", phase.Phase),
		logger.Field("trade_date", phase.TradeDate))

	switch phase.Phase {
	case common.PhasePreMarket:
		err = s.signalService.RunPreMarket(cycleCtx, tradeDate)
	case common.PhasePostMarket:
		err = s.settlementService.RunPostMarket(cycleCtx, tradeDate)
	default:
		s.logger.Error("Unknown trading phase", logger.Field("phase", phase.Phase))
		return
	}
	if err != nil {
		s.logger.Error("Trading phase failed", logger.ErrorField(err), logger.Field("phase", phase.Phase))
		return
	}
	s.logger.Info("Trading phase completed", logger.Field("phase", phase.Phase))
}
