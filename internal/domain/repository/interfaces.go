package repository

import (
	"context"

	"TradeNet/internal/domain/models"
)

// MarketDataStore is the sole gateway to the remote document database for
// market-data records. It owns the path convention and the batching and
// pagination policy; no other component constructs document paths.
//
// Failures below the store boundary are never surfaced as errors: writes
// report success as a bool, reads degrade to an empty slice, and the cause is
// logged with symbol/timeframe context. This keeps bulk-ingest loops over many
// partitions resilient to a single partition's failure.
type MarketDataStore interface {
	// WriteMarketData upserts records (timestamp -> fields) into the
	// (symbol, timeframe) partition, committing every batchSize documents.
	// batchSize <= 0 selects the configured chunk size. Each commit is
	// atomic; the call as a whole is not atomic across commits.
	WriteMarketData(ctx context.Context, symbol string, tf Timeframe, records map[int64]models.Fields, batchSize int) bool

	// ReadMarketData returns at most limit records from the partition,
	// sorted descending on orderBy. limit <= 0 and orderBy == "" select
	// the defaults (1000, "timestamp"). An empty partition yields an empty
	// slice, never an error.
	ReadMarketData(ctx context.Context, symbol string, tf Timeframe, limit int, orderBy string) []models.Fields

	// Health verifies the underlying connection is usable.
	Health(ctx context.Context) error

	Close() error
}

// MarketFeed fetches recent candles from an exchange.
type MarketFeed interface {
	FetchCandles(ctx context.Context, symbol string, tf Timeframe, limit int) ([]*models.Candle, error)
}

type Metrics interface {
	RecordCandlesWritten(symbol, timeframe string, n int)
	RecordError(kind string)
	RecordLastClose(symbol string, close float64)
	RecordLatency(op string, seconds float64)
}
