package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"BreakoutRadar/internal/collector"
	"BreakoutRadar/internal/config"
	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/screener"
)

const defaultConfigPath = "configs/config.yaml"

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	var cfgPath string
	root := &cobra.Command{
		Use:           "radar",
		Short:         "短线爆发雷达: breakout momentum screener",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")

	load := func() (*config.Config, error) {
		return loadConfig(cfgPath)
	}
	root.AddCommand(scanCmd(ctx, load))
	root.AddCommand(watchCmd(ctx, load))
	return root.ExecuteContext(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = defaultConfigPath
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.Log.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// buildPipeline wires the configured provider behind the rate limiter and breaker.
func buildPipeline(cfg *config.Config, reg prometheus.Registerer) (*screener.Pipeline, error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "alpaca":
		af := collector.NewAlpacaFetcher(cfg.DataSource.AlpacaAPIKey, cfg.DataSource.AlpacaAPISecret, cfg.Proxy)
		af.Feed = cfg.DataSource.AlpacaFeed
		fetcher = af
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.DataSource.Provider)
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	opts := collector.DefaultGuardOptions()
	opts.RequestsPerSecond = cfg.DataSource.RequestsPerSecond
	opts.Burst = cfg.DataSource.Burst
	col := collector.NewCollector(collector.NewGuarded(fetcher, opts), cfg.Scan.FetchTimeout)

	var metrics *screener.Metrics
	if reg != nil {
		metrics = screener.NewMetrics(reg)
	}
	return screener.NewPipeline(col, cfg.Scan.Concurrency, metrics), nil
}

// scanParams resolves the run input from config plus optional flag overrides.
func scanParams(cfg *config.Config, symbols, period string) (screener.Params, error) {
	if symbols == "" {
		symbols = cfg.Scan.Symbols
	}
	if period == "" {
		period = cfg.Scan.Period
	}
	p, err := model.ParsePeriod(period)
	if err != nil {
		return screener.Params{}, err
	}
	syms := config.ParseSymbols(symbols)
	if len(syms) == 0 {
		return screener.Params{}, fmt.Errorf("no symbols provided")
	}
	return screener.Params{Symbols: syms, Period: p}, nil
}
