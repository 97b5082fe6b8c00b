package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the immutable settings snapshot for the process. It is produced
// once by Load at startup; nothing reads the environment after that.
type Config struct {
	Firebase struct {
		ProjectID        string `default:"autonomous-trading" validate:"required"`
		CredentialsPath  string `default:"./firebase-creds.json" validate:"required"`
		CollectionPrefix string `default:"trading_system" validate:"required"`
	}
	Exchange struct {
		ID        string `default:"binance" validate:"required"`
		APIKey    string
		APISecret string
		Testnet   bool `default:"true"`
		RateLimit int  `default:"1200" validate:"gt=0"` // requests per minute
	}
	Data struct {
		Symbols         []string      `default:"[\"BTC/USDT\",\"ETH/USDT\",\"BNB/USDT\"]" validate:"min=1"`
		Timeframes      []string      `default:"[\"1h\",\"4h\",\"1d\"]" validate:"min=1,dive,oneof=1m 5m 15m 1h 4h 1d"`
		MaxRetries      int           `default:"3" validate:"gte=1"`
		RetryDelay      time.Duration `default:"5s"`
		ChunkSize       int           `default:"500" validate:"gt=0"`
		CollectInterval time.Duration `default:"5m"`
		FetchLimit      int           `default:"200" validate:"gt=0,lte=1000"`
	}
	Server struct {
		Port            int           `default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `default:"10s"`
		WriteTimeout    time.Duration `default:"10s"`
		ShutdownTimeout time.Duration `default:"10s"`
	}
	Cache struct {
		Backend       string        `default:"memory" validate:"oneof=memory redis"`
		TTL           time.Duration `default:"30s"`
		RedisHost     string        `default:"localhost"`
		RedisPort     int           `default:"6379" validate:"gt=0"`
		RedisPassword string
		RedisDB       int `default:"0"`
	}
	Logging struct {
		Level  string `default:"info" validate:"oneof=trace debug info warn error fatal panic"`
		Format string `default:"console" validate:"oneof=json console"`
		Output string `default:"stdout"`
	}

	// Warnings collected during best-effort validation. Never fatal.
	Warnings []string `validate:"-"`
}

// Load builds the settings snapshot from environment variables. envFile, when
// non-empty, names a dotenv file to read first; a missing default .env is not
// an error. Malformed required values (non-integer where an integer is
// expected) fail the load; missing optional credentials only produce warnings.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}
	} else {
		_ = godotenv.Load() // best-effort ./.env
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	c.warn()
	for _, w := range c.Warnings {
		log.Printf("config warning: %s", w)
	}

	return &c, nil
}

// applyEnv overrides defaults with environment variables.
func (c *Config) applyEnv() error {
	envString(&c.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	envString(&c.Firebase.CredentialsPath, "FIREBASE_CREDENTIALS_PATH")
	envString(&c.Firebase.CollectionPrefix, "FIREBASE_COLLECTION_PREFIX")

	envString(&c.Exchange.ID, "EXCHANGE_ID")
	envString(&c.Exchange.APIKey, "EXCHANGE_API_KEY")
	envString(&c.Exchange.APISecret, "EXCHANGE_API_SECRET")
	if err := envBool(&c.Exchange.Testnet, "EXCHANGE_TESTNET"); err != nil {
		return err
	}
	if err := envInt(&c.Exchange.RateLimit, "EXCHANGE_RATE_LIMIT"); err != nil {
		return err
	}

	envList(&c.Data.Symbols, "DATA_SYMBOLS")
	envList(&c.Data.Timeframes, "DATA_TIMEFRAMES")
	if err := envInt(&c.Data.MaxRetries, "DATA_MAX_RETRIES"); err != nil {
		return err
	}
	if err := envDuration(&c.Data.RetryDelay, "DATA_RETRY_DELAY"); err != nil {
		return err
	}
	if err := envInt(&c.Data.ChunkSize, "DATA_CHUNK_SIZE"); err != nil {
		return err
	}
	if err := envDuration(&c.Data.CollectInterval, "DATA_COLLECT_INTERVAL"); err != nil {
		return err
	}
	if err := envInt(&c.Data.FetchLimit, "DATA_FETCH_LIMIT"); err != nil {
		return err
	}

	if err := envInt(&c.Server.Port, "SERVER_PORT"); err != nil {
		return err
	}

	envString(&c.Cache.Backend, "CACHE_BACKEND")
	if err := envDuration(&c.Cache.TTL, "CACHE_TTL"); err != nil {
		return err
	}
	envString(&c.Cache.RedisHost, "REDIS_HOST")
	if err := envInt(&c.Cache.RedisPort, "REDIS_PORT"); err != nil {
		return err
	}
	envString(&c.Cache.RedisPassword, "REDIS_PASSWORD")
	if err := envInt(&c.Cache.RedisDB, "REDIS_DB"); err != nil {
		return err
	}

	envString(&c.Logging.Level, "LOG_LEVEL")
	envString(&c.Logging.Format, "LOG_FORMAT")
	envString(&c.Logging.Output, "LOG_OUTPUT")

	return nil
}

// Validate checks if the configuration is structurally valid.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// warn records best-effort findings that must not abort startup.
func (c *Config) warn() {
	if _, err := os.Stat(c.Firebase.CredentialsPath); err != nil {
		c.Warnings = append(c.Warnings,
			fmt.Sprintf("firebase credentials not found at %s", c.Firebase.CredentialsPath))
	}
	if c.Exchange.APIKey == "" && c.Exchange.APISecret == "" {
		c.Warnings = append(c.Warnings,
			"exchange API credentials not set; some functionality will be limited")
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envList(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

func envInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: expected integer, got %q", key, v)
	}
	*dst = n
	return nil
}

func envBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return fmt.Errorf("%s: expected boolean, got %q", key, v)
	}
	*dst = b
	return nil
}

// envDuration accepts Go duration strings ("5s", "2m") and bare integers,
// which are treated as seconds for parity with the original env layout.
func envDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: expected duration, got %q", key, v)
	}
	*dst = d
	return nil
}
