package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BreakoutRadar/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Scan struct {
		Symbols      string        `yaml:"symbols"` // comma-separated
		Period       string        `yaml:"period"`
		Concurrency  int           `yaml:"concurrency"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"scan"`
	DataSource struct {
		Provider          string  `yaml:"provider"` // yahoo or alpaca
		AlpacaAPIKey      string  `yaml:"alpaca_api_key"`
		AlpacaAPISecret   string  `yaml:"alpaca_api_secret"`
		AlpacaFeed        string  `yaml:"alpaca_feed"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Log.Pretty = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RADAR_SYMBOLS"); v != "" {
		cfg.Scan.Symbols = v
	}
	if v := os.Getenv("RADAR_PERIOD"); v != "" {
		cfg.Scan.Period = v
	}
	if v := os.Getenv("RADAR_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.DataSource.AlpacaAPIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.DataSource.AlpacaAPISecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("RADAR_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Concurrency = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Scan.Symbols == "" {
		cfg.Scan.Symbols = "NVDA, TSLA, AAPL, AMD, MSFT"
	}
	if cfg.Scan.Period == "" {
		cfg.Scan.Period = string(model.Period3Mo)
	}
	if cfg.Scan.Concurrency == 0 {
		cfg.Scan.Concurrency = 4
	}
	if cfg.Scan.FetchTimeout == 0 {
		cfg.Scan.FetchTimeout = 15 * time.Second
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.AlpacaFeed == "" {
		cfg.DataSource.AlpacaFeed = "iex"
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 2
	}
	if cfg.DataSource.Burst == 0 {
		cfg.DataSource.Burst = 2
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 16 * * 1-5" // after the US close
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = ":9102"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if _, err := model.ParsePeriod(c.Scan.Period); err != nil {
		return fmt.Errorf("scan.period: %w", err)
	}
	if len(ParseSymbols(c.Scan.Symbols)) == 0 {
		return fmt.Errorf("scan.symbols must contain at least one ticker")
	}
	if c.Scan.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency must not be negative")
	}
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaAPIKey == "" || c.DataSource.AlpacaAPISecret == "" {
			return fmt.Errorf("data_source.alpaca_api_key and alpaca_api_secret are required for alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	return nil
}

// ValidateTelegram checks the settings needed to push messages.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// ParseSymbols splits comma-separated input into uppercase tickers,
// dropping empty tokens and repeats while keeping first-seen order.
func ParseSymbols(input string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Split(input, ",") {
		s := strings.ToUpper(strings.TrimSpace(tok))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
