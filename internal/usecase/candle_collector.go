package usecase

import (
	"context"
	"time"

	"TradeNet/internal/domain/models"
	domrepo "TradeNet/internal/domain/repository"
	"TradeNet/pkg/logger"
)

// CollectorConfig holds the data-collection settings.
type CollectorConfig struct {
	Symbols    []string
	Timeframes []string
	Interval   time.Duration
	FetchLimit int
	MaxRetries int
	RetryDelay time.Duration
}

// CandleCollector periodically fetches candles from the exchange feed and
// persists them through the market-data store.
type CandleCollector struct {
	feed    domrepo.MarketFeed
	store   domrepo.MarketDataStore
	metrics domrepo.Metrics
	log     *logger.Logger

	symbols    []string
	timeframes []domrepo.Timeframe
	interval   time.Duration
	fetchLimit int
	maxRetries int
	retryDelay time.Duration
}

// NewCandleCollector creates a new CandleCollector instance.
func NewCandleCollector(feed domrepo.MarketFeed, store domrepo.MarketDataStore, metrics domrepo.Metrics, log *logger.Logger, cfg CollectorConfig) *CandleCollector {
	tfs := make([]domrepo.Timeframe, 0, len(cfg.Timeframes))
	for _, tf := range cfg.Timeframes {
		tfs = append(tfs, domrepo.NormalizeTimeframe(tf))
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &CandleCollector{
		feed:       feed,
		store:      store,
		metrics:    metrics,
		log:        log,
		symbols:    cfg.Symbols,
		timeframes: tfs,
		interval:   cfg.Interval,
		fetchLimit: cfg.FetchLimit,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Start runs collection sweeps until ctx is cancelled. The first sweep runs
// immediately.
func (c *CandleCollector) Start(ctx context.Context) error {
	c.log.Info("collector started",
		logger.Strings("symbols", c.symbols),
		logger.Duration("interval", c.interval))

	c.Sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep collects every configured (symbol, timeframe) partition once and
// returns how many partitions were stored successfully. A failing partition
// is logged and skipped; the sweep continues.
func (c *CandleCollector) Sweep(ctx context.Context) int {
	var stored int
	for _, symbol := range c.symbols {
		for _, tf := range c.timeframes {
			select {
			case <-ctx.Done():
				return stored
			default:
			}
			if c.collect(ctx, symbol, tf) {
				stored++
			}
		}
	}
	return stored
}

func (c *CandleCollector) collect(ctx context.Context, symbol string, tf domrepo.Timeframe) bool {
	candles, err := c.fetchWithRetry(ctx, symbol, tf)
	if err != nil {
		c.metrics.RecordError("feed")
		c.log.Error("candle fetch failed",
			logger.String("symbol", symbol),
			logger.String("timeframe", string(tf)),
			logger.Error(err))
		return false
	}
	if len(candles) == 0 {
		return true
	}

	records := make(map[int64]models.Fields, len(candles))
	var last *models.Candle
	for _, cd := range candles {
		records[cd.Timestamp] = cd.Fields()
		if last == nil || cd.Timestamp > last.Timestamp {
			last = cd
		}
	}

	// The store logs its own failures; a false here must not stop the sweep.
	if !c.store.WriteMarketData(ctx, symbol, tf, records, 0) {
		return false
	}
	c.metrics.RecordLastClose(symbol, last.Close)
	return true
}

func (c *CandleCollector) fetchWithRetry(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]*models.Candle, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		candles, err := c.feed.FetchCandles(ctx, symbol, tf, c.fetchLimit)
		if err == nil {
			return candles, nil
		}
		lastErr = err
		if attempt == c.maxRetries {
			break
		}
		c.log.Warn("candle fetch retry",
			logger.String("symbol", symbol),
			logger.String("timeframe", string(tf)),
			logger.Int("attempt", attempt),
			logger.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return nil, lastErr
}
