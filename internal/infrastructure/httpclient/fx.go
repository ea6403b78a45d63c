package httpclient

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides the shared HTTP client for fx dependency injection
var Module = fx.Module("httpclient",
	fx.Provide(provideClient),
)

// provideClient creates the client and registers its shutdown hook
func provideClient(lc fx.Lifecycle, logger zerolog.Logger) *http.Client {
	client := New()

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info().Msg("Closing shared HTTP client")
			Close(client)
			return nil
		},
	})

	return client
}
