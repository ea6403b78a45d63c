package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp(t *testing.T) {
	// Set required environment variables for test
	os.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	os.Setenv("RAPIDAPI_KEY", "test-key")
	os.Setenv("RAPIDAPI_HOST", "test-host.example.com")
	os.Setenv("RAPIDAPI_URL", "https://test-host.example.com/resolve")
	defer func() {
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
		os.Unsetenv("RAPIDAPI_KEY")
		os.Unsetenv("RAPIDAPI_HOST")
		os.Unsetenv("RAPIDAPI_URL")
	}()

	// Validate fx dependency graph
	require.NoError(t, fx.ValidateApp(CreateApp()))
}
