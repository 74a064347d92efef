package consumer

import (
	"context"
	"sync"
	"time"

	"golang-paper-trader/internal/trading/config"
	"golang-paper-trader/internal/trading/service"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer manages consumption of trading-phase messages from the Redis
// stream.
type RedisConsumer struct {
	cfg          *config.Config
	redisClient  *redis.Client
	phaseService service.PhaseService
	logger       *logger.Logger
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	phaseService service.PhaseService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:          cfg,
		redisClient:  redisClient,
		phaseService: phaseService,
		logger:       log,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the consumer's processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.registerStreamHandler(ctx, c.phaseService.ProcessPhase, common.RedisStreamTradingPhase, c.cfg.Trading.RedisStreamPhaseTimeout)
}

func (c *RedisConsumer) registerStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
