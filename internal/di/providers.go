package di

import (
	"fmt"

	"TradeNet/internal/domain/repository"
	"TradeNet/internal/handler/api"
	internalrepo "TradeNet/internal/repository"
	"TradeNet/internal/service/binance"
	"TradeNet/internal/usecase"
	"TradeNet/pkg/cache"
	"TradeNet/pkg/config"
	pkgfs "TradeNet/pkg/firestore"
	xhttp "TradeNet/pkg/http"
	applogger "TradeNet/pkg/logger"
	"TradeNet/pkg/metrics"
	"TradeNet/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideFirestoreConn creates the lazy Firestore connection. The first store
// operation dials; construction never touches the network.
func ProvideFirestoreConn(cfg *config.Config) *pkgfs.Conn {
	return pkgfs.NewConn(
		pkgfs.WithProjectID(cfg.Firebase.ProjectID),
		pkgfs.WithCredentialsFile(cfg.Firebase.CredentialsPath),
	)
}

// ProvideCache creates the cache backend selected by configuration.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.RedisHost),
			cache.WithRedisPort(cfg.Cache.RedisPort),
			cache.WithRedisPassword(cfg.Cache.RedisPassword),
			cache.WithRedisDB(cfg.Cache.RedisDB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideMarketDataStore creates the Firestore-backed market-data store.
func ProvideMarketDataStore(conn *pkgfs.Conn, log *applogger.Logger, m repository.Metrics, cfg *config.Config) repository.MarketDataStore {
	return internalrepo.NewFirestoreMarketStore(conn, log, m, cfg.Firebase.CollectionPrefix, cfg.Data.ChunkSize)
}

// ProvideMarketFeed creates the exchange candle feed.
func ProvideMarketFeed(cfg *config.Config, log *applogger.Logger) repository.MarketFeed {
	return binance.New(
		cfg.Exchange.APIKey,
		cfg.Exchange.APISecret,
		cfg.Exchange.Testnet,
		cfg.Exchange.RateLimit,
		log,
	)
}

// ProvideCandleCollector creates the candle collector use case.
func ProvideCandleCollector(
	feed repository.MarketFeed,
	store repository.MarketDataStore,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.CandleCollector {
	return usecase.NewCandleCollector(feed, store, m, log, usecase.CollectorConfig{
		Symbols:    cfg.Data.Symbols,
		Timeframes: cfg.Data.Timeframes,
		Interval:   cfg.Data.CollectInterval,
		FetchLimit: cfg.Data.FetchLimit,
		MaxRetries: cfg.Data.MaxRetries,
		RetryDelay: cfg.Data.RetryDelay,
	})
}

// ProvideHTTPHandler creates the market-data HTTP handler.
func ProvideHTTPHandler(log *applogger.Logger, store repository.MarketDataStore, c cache.Service, cfg *config.Config) xhttp.Handler {
	return api.NewMarketDataHandler(log, store, c, cfg.Cache.TTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.CandleCollector,
	store repository.MarketDataStore,
	c cache.Service,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, collector, store, c, handler)
}
