package service

import (
	"context"
	"encoding/json"
	"time"

	"golang-paper-trader/internal/scheduler/config"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// SchedulerService publishes the trading phases on their cron schedules.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	// PublishPhase enqueues one phase for the given trade date. Exposed so
	// the API can trigger a manual rerun.
	PublishPhase(ctx context.Context, phase string, tradeDate time.Time) error
}

type schedulerService struct {
	cfg         *config.Config
	redisClient *redis.Client
	logger      *logger.Logger
	cron        *cron.Cron
}

// NewSchedulerService creates a new scheduler service. The cron runner is
// pinned to the exchange timezone so session times survive host timezones.
func NewSchedulerService(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) SchedulerService {
	return &schedulerService{
		cfg:         cfg,
		redisClient: redisClient,
		logger:      log,
		cron:        cron.New(cron.WithLocation(utils.TimeNowTaipei().Location())),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.PreMarketCron, func() {
		s.publishToday(ctx, common.PhasePreMarket)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.PostMarketCron, func() {
		s.publishToday(ctx, common.PhasePostMarket)
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.Field("pre_market_cron", s.cfg.Scheduler.PreMarketCron),
		logger.Field("post_market_cron", s.cfg.Scheduler.PostMarketCron))
	return nil
}

func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *schedulerService) publishToday(ctx context.Context, phase string) {
	if err := s.PublishPhase(ctx, phase, utils.TimeNowTaipei()); err != nil {
		s.logger.Error("Failed to publish trading phase", logger.ErrorField(err), logger.Field("phase", phase))
	}
}

func (s *schedulerService) PublishPhase(ctx context.Context, phase string, tradeDate time.Time) error {
	payload, err := json.Marshal(common.PhaseEvent{
		Phase:     phase,
		TradeDate: utils.TradeDate(tradeDate).Format(utils.DateLayout),
	})
	if err != nil {
		return err
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamTradingPhase,
		Values: map[string]interface{}{"payload": payload},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err(); err != nil {
		return err
	}

	s.logger.Info("Trading phase published",
		logger.Field("phase", phase),
		logger.Field("trade_date", utils.TradeDate(tradeDate).Format(utils.DateLayout)))
	return nil
}
