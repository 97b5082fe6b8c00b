package models

// Requests for market-data HTTP endpoints. Defined in domain for consistency and reuse.

type CandlesRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	TF      string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
	Limit   int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	OrderBy string `query:"order_by" json:"order_by" default:"timestamp" validate:"oneof=timestamp open high low close volume updated_at"`
}
