package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	models "TradeNet/internal/domain/models"
	domrepo "TradeNet/internal/domain/repository"
	"TradeNet/pkg/cache"
	xhttp "TradeNet/pkg/http"
	xlogger "TradeNet/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketDataHandler serves stored market data over Echo-based HTTP endpoints.
type MarketDataHandler struct {
	logger *xlogger.Logger
	store  domrepo.MarketDataStore
	cache  cache.Service
	ttl    time.Duration
}

func NewMarketDataHandler(logger *xlogger.Logger, store domrepo.MarketDataStore, c cache.Service, ttl time.Duration) *MarketDataHandler {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &MarketDataHandler{logger: logger, store: store, cache: c, ttl: ttl}
}

func (h *MarketDataHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market-data", h.Candles)

	e.GET("/healthz", h.Health)
}

func (h *MarketDataHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	ctx := c.Request().Context()

	key := fmt.Sprintf("md:%s:%s:%d:%s", req.Symbol, tf, req.Limit, req.OrderBy)
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, key); err == nil {
			var rows []models.Fields
			if jerr := json.Unmarshal([]byte(cached), &rows); jerr == nil {
				return xhttp.ListResponse(c, rows, int64(len(rows)))
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("cache read error", xlogger.Error(err))
		}
	}

	rows := h.store.ReadMarketData(ctx, req.Symbol, tf, req.Limit, req.OrderBy)

	if h.cache != nil && len(rows) > 0 {
		if encoded, err := json.Marshal(rows); err == nil {
			if serr := h.cache.Set(ctx, key, string(encoded), h.ttl); serr != nil {
				h.logger.Warn("cache write error", xlogger.Error(serr))
			}
		}
	}

	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *MarketDataHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.ServiceUnavailableResponse(c, map[string]string{"status": "unhealthy"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
