package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolPathSegment(t *testing.T) {
	assert.Equal(t, "BTC_USDT", SymbolPathSegment("BTC/USDT"))
	assert.Equal(t, "BTCUSDT", SymbolPathSegment("BTCUSDT"))
	assert.Equal(t, "A_B_C", SymbolPathSegment("A/B/C"))
}

func TestCandleFields(t *testing.T) {
	c := &Candle{
		Symbol:    "BTC/USDT",
		Timeframe: "1h",
		Timestamp: 1_700_000_000_000,
		Open:      100.0,
		High:      110.0,
		Low:       95.0,
		Close:     105.0,
		Volume:    12.5,
	}

	f := c.Fields()
	assert.Equal(t, Fields{
		"open":   100.0,
		"high":   110.0,
		"low":    95.0,
		"close":  105.0,
		"volume": 12.5,
	}, f)

	_, hasSymbol := f["symbol"]
	assert.False(t, hasSymbol, "metadata is attached at write time, not here")
}
