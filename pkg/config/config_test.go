package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS_PATH", "FIREBASE_COLLECTION_PREFIX",
		"EXCHANGE_ID", "EXCHANGE_API_KEY", "EXCHANGE_API_SECRET", "EXCHANGE_TESTNET", "EXCHANGE_RATE_LIMIT",
		"DATA_SYMBOLS", "DATA_TIMEFRAMES", "DATA_MAX_RETRIES", "DATA_RETRY_DELAY", "DATA_CHUNK_SIZE",
		"DATA_COLLECT_INTERVAL", "DATA_FETCH_LIMIT",
		"SERVER_PORT", "CACHE_BACKEND", "CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "autonomous-trading", cfg.Firebase.ProjectID)
	assert.Equal(t, "trading_system", cfg.Firebase.CollectionPrefix)
	assert.Equal(t, "binance", cfg.Exchange.ID)
	assert.True(t, cfg.Exchange.Testnet)
	assert.Equal(t, 1200, cfg.Exchange.RateLimit)
	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT", "BNB/USDT"}, cfg.Data.Symbols)
	assert.Equal(t, []string{"1h", "4h", "1d"}, cfg.Data.Timeframes)
	assert.Equal(t, 3, cfg.Data.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Data.RetryDelay)
	assert.Equal(t, 500, cfg.Data.ChunkSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBASE_PROJECT_ID", "prod-trading")
	t.Setenv("FIREBASE_COLLECTION_PREFIX", "prod_system")
	t.Setenv("EXCHANGE_TESTNET", "false")
	t.Setenv("EXCHANGE_RATE_LIMIT", "600")
	t.Setenv("DATA_SYMBOLS", "SOL/USDT, DOGE/USDT")
	t.Setenv("DATA_TIMEFRAMES", "1m,5m")
	t.Setenv("DATA_RETRY_DELAY", "10")
	t.Setenv("DATA_COLLECT_INTERVAL", "1m")
	t.Setenv("SERVER_PORT", "9091")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "prod-trading", cfg.Firebase.ProjectID)
	assert.Equal(t, "prod_system", cfg.Firebase.CollectionPrefix)
	assert.False(t, cfg.Exchange.Testnet)
	assert.Equal(t, 600, cfg.Exchange.RateLimit)
	assert.Equal(t, []string{"SOL/USDT", "DOGE/USDT"}, cfg.Data.Symbols)
	assert.Equal(t, []string{"1m", "5m"}, cfg.Data.Timeframes)
	assert.Equal(t, 10*time.Second, cfg.Data.RetryDelay)
	assert.Equal(t, time.Minute, cfg.Data.CollectInterval)
	assert.Equal(t, 9091, cfg.Server.Port)
}

func TestLoadMalformedValuesAreFatal(t *testing.T) {
	clearEnv(t)

	t.Run("integer", func(t *testing.T) {
		t.Setenv("EXCHANGE_RATE_LIMIT", "not-a-number")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EXCHANGE_RATE_LIMIT")
	})

	t.Run("boolean", func(t *testing.T) {
		t.Setenv("EXCHANGE_TESTNET", "maybe")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EXCHANGE_TESTNET")
	})

	t.Run("timeframe", func(t *testing.T) {
		t.Setenv("DATA_TIMEFRAMES", "7h")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestLoadMissingCredentialsWarnsOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBASE_CREDENTIALS_PATH", filepath.Join(t.TempDir(), "absent.json"))

	cfg, err := Load("")
	require.NoError(t, err)

	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "firebase credentials not found")
	assert.Contains(t, cfg.Warnings[1], "exchange API credentials not set")
}

func TestLoadEnvFileMissingIsError(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}
