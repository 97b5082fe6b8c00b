package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"TradeNet/internal/domain/models"
	domrepo "TradeNet/internal/domain/repository"
	"TradeNet/pkg/logger"
)

const defaultFetchLimit = 100

// Client implements repository.MarketFeed on the Binance REST API. Requests
// are paced by a limiter derived from the exchange's configured request
// budget (requests per minute).
type Client struct {
	api     *binance.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// New creates a Binance feed client. testnet routes requests to the Binance
// testnet endpoints.
func New(apiKey, apiSecret string, testnet bool, rateLimitPerMin int, log *logger.Logger) *Client {
	binance.UseTestnet = testnet
	if rateLimitPerMin <= 0 {
		rateLimitPerMin = 1200
	}
	return &Client{
		api:     binance.NewClient(apiKey, apiSecret),
		limiter: rate.NewLimiter(rate.Limit(float64(rateLimitPerMin)/60.0), 10),
		log:     log,
	}
}

// FetchCandles returns up to limit most recent klines for the symbol and
// timeframe. The kline open time (ms epoch) becomes the record timestamp.
func (c *Client) FetchCandles(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]*models.Candle, error) {
	if limit <= 0 {
		limit = defaultFetchLimit
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	kls, err := c.api.NewKlinesService().
		Symbol(ExchangeSymbol(symbol)).
		Interval(string(tf)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("klines %s %s: %w", symbol, tf, err)
	}

	out := make([]*models.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, toCandle(symbol, tf, kl))
	}

	c.log.Debug("candles fetched",
		logger.String("symbol", symbol),
		logger.String("timeframe", string(tf)),
		logger.Int("count", len(out)))
	return out, nil
}

// ExchangeSymbol converts a logical symbol to Binance form: "BTC/USDT"
// becomes "BTCUSDT".
func ExchangeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), "/", "")
}

func toCandle(symbol string, tf domrepo.Timeframe, kl *binance.Kline) *models.Candle {
	return &models.Candle{
		Symbol:    symbol,
		Timeframe: string(tf),
		Timestamp: kl.OpenTime,
		Open:      parseFloat(kl.Open),
		High:      parseFloat(kl.High),
		Low:       parseFloat(kl.Low),
		Close:     parseFloat(kl.Close),
		Volume:    parseFloat(kl.Volume),
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
