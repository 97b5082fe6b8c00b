package binance

import (
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"

	domrepo "TradeNet/internal/domain/repository"
)

func TestExchangeSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", ExchangeSymbol("BTC/USDT"))
	assert.Equal(t, "ETHUSDT", ExchangeSymbol(" ETH/USDT "))
	assert.Equal(t, "BNBUSDT", ExchangeSymbol("BNBUSDT"))
}

func TestToCandle(t *testing.T) {
	kl := &binance.Kline{
		OpenTime: 1700000000000,
		Open:     "42000.5",
		High:     "42100.0",
		Low:      "41900.25",
		Close:    "42050.75",
		Volume:   "123.456",
	}

	c := toCandle("BTC/USDT", domrepo.TF1h, kl)
	assert.Equal(t, "BTC/USDT", c.Symbol)
	assert.Equal(t, "1h", c.Timeframe)
	assert.Equal(t, int64(1700000000000), c.Timestamp)
	assert.Equal(t, 42000.5, c.Open)
	assert.Equal(t, 42100.0, c.High)
	assert.Equal(t, 41900.25, c.Low)
	assert.Equal(t, 42050.75, c.Close)
	assert.Equal(t, 123.456, c.Volume)
}

func TestParseFloatInvalid(t *testing.T) {
	assert.Zero(t, parseFloat(""))
	assert.Zero(t, parseFloat("n/a"))
}
