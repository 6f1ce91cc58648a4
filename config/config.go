package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DebugMode enables verbose logging across packages.
var DebugMode = false

const (
	CoinbaseProductionURL = "https://api.exchange.coinbase.com"
	CoinbaseSandboxURL    = "https://api-public.sandbox.exchange.coinbase.com"
	KucoinProductionURL   = "https://api.kucoin.com"
)

type CoinbaseConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type KucoinConfig struct {
	BaseURL string `yaml:"base_url"`
}

type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	DefaultProvider string        `yaml:"default_provider"`
	Providers       []string      `yaml:"providers"`
	BookLevel       int           `yaml:"book_level"`
	MaxDepth        int           `yaml:"max_depth"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	Debug           bool          `yaml:"debug"`

	Coinbase CoinbaseConfig `yaml:"coinbase"`
	Kucoin   KucoinConfig   `yaml:"kucoin"`

	// Precision overrides the decimal places per currency code.
	Precision        map[string]int32 `yaml:"precision"`
	DefaultPrecision int32            `yaml:"default_precision"`
}

func Default() *Config {
	return &Config{
		HTTPAddr:        ":3000",
		GRPCAddr:        ":50051",
		DefaultProvider: "coinbase",
		Providers:       []string{"coinbase", "kucoin"},
		BookLevel:       2,
		FetchTimeout:    10 * time.Second,
		Coinbase: CoinbaseConfig{
			BaseURL:           CoinbaseProductionURL,
			UserAgent:         "cryptoquote/1.0",
			RequestsPerSecond: 10,
			Burst:             15,
		},
		Kucoin: KucoinConfig{
			BaseURL: KucoinProductionURL,
		},
		DefaultPrecision: 8,
	}
}

// Load reads .env (if present), then the YAML file named by QUOTE_CONFIG_FILE
// (if set), then applies environment overrides on top.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("QUOTE_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	DebugMode = cfg.Debug
	if DebugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.HTTPAddr = ":" + port
	}
	if port := os.Getenv("GRPC_PORT"); port != "" {
		c.GRPCAddr = ":" + port
	}
	if p := os.Getenv("QUOTE_PROVIDER"); p != "" {
		c.DefaultProvider = strings.ToLower(p)
	}
	if v := os.Getenv("QUOTE_BOOK_LEVEL"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid QUOTE_BOOK_LEVEL %q: %w", v, err)
		}
		c.BookLevel = level
	}
	if v := os.Getenv("QUOTE_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid QUOTE_FETCH_TIMEOUT %q: %w", v, err)
		}
		c.FetchTimeout = d
	}
	if v := os.Getenv("COINBASE_SANDBOX"); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COINBASE_SANDBOX %q: %w", v, err)
		}
		if sandbox {
			c.Coinbase.BaseURL = CoinbaseSandboxURL
		}
	}
	if v := os.Getenv("COINBASE_BASE_URL"); v != "" {
		c.Coinbase.BaseURL = v
	}
	if v := os.Getenv("KUCOIN_BASE_URL"); v != "" {
		c.Kucoin.BaseURL = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}
	return nil
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must be set")
	}
	if c.GRPCAddr == "" {
		return fmt.Errorf("grpc_addr must be set")
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	if !c.HasProvider(c.DefaultProvider) {
		return fmt.Errorf("default provider %q is not in providers %v", c.DefaultProvider, c.Providers)
	}
	if c.BookLevel < 1 || c.BookLevel > 3 {
		return fmt.Errorf("book_level must be 1, 2 or 3, got %d", c.BookLevel)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.DefaultPrecision < 0 {
		return fmt.Errorf("default_precision must not be negative")
	}
	for code, places := range c.Precision {
		if places < 0 {
			return fmt.Errorf("precision for %s must not be negative", code)
		}
	}
	return nil
}

func (c *Config) HasProvider(name string) bool {
	for _, p := range c.Providers {
		if p == name {
			return true
		}
	}
	return false
}
