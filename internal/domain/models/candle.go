package models

import "strings"

// Fields is the document body of one persisted market-data record. Caller
// fields pass through unmodified; the store adds symbol, timeframe, timestamp
// and updated_at on write.
type Fields map[string]interface{}

// Candle represents one OHLCV bar fetched from an exchange feed.
type Candle struct {
	Symbol    string
	Timeframe string
	Timestamp int64 // period-start epoch (ms)
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Fields returns the candle body as stored, without the metadata the store
// attaches itself.
func (c *Candle) Fields() Fields {
	return Fields{
		"open":   c.Open,
		"high":   c.High,
		"low":    c.Low,
		"close":  c.Close,
		"volume": c.Volume,
	}
}

// SymbolPathSegment converts a logical symbol to its storage-path form.
// Document path segments forbid "/", so "BTC/USDT" becomes "BTC_USDT"; the
// slash form is preserved inside the record body.
func SymbolPathSegment(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "_")
}
