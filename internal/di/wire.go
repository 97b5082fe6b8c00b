//go:build wireinject
// +build wireinject

package di

import (
	"TradeNet/pkg/config"
	"TradeNet/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideFirestoreConn,
		ProvideCache,

		// Repositories
		ProvideMarketDataStore,
		ProvideMarketFeed,

		// Use cases
		ProvideCandleCollector,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
