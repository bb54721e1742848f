package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"BreakoutRadar/internal/config"
	"BreakoutRadar/internal/notifier"
	"BreakoutRadar/internal/report"
	"BreakoutRadar/internal/screener"
)

func scanCmd(ctx context.Context, load func() (*config.Config, error)) *cobra.Command {
	var (
		symbols  string
		period   string
		chartOut string
		notify   bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score the watchlist once and print the ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			if notify {
				if err := cfg.ValidateTelegram(); err != nil {
					return fmt.Errorf("--notify: %w", err)
				}
			}
			params, err := scanParams(cfg, symbols, period)
			if err != nil {
				return err
			}
			pipeline, err := buildPipeline(cfg, nil)
			if err != nil {
				return err
			}

			rep, err := pipeline.Run(ctx, params)
			if rep == nil {
				return err
			}
			out := cmd.OutOrStdout()
			printFailures(out, rep)
			if errors.Is(err, screener.ErrNoResults) {
				if notify {
					sendReport(ctx, cfg, rep)
				}
				return err
			}

			if err := report.WriteTable(out, rep.Ranked); err != nil {
				return err
			}
			top, _ := rep.Top()
			fmt.Fprintf(out, "\n🔍 深度聚焦: %s (%s)\n\n", top.Symbol, top.Status.Label())
			fmt.Fprintln(out, report.FormatPrompt(top))

			if chartOut != "" {
				if err := writeChart(ctx, pipeline, top.Symbol, chartOut); err != nil {
					log.Warn().Err(err).Str("symbol", top.Symbol).Msg("spotlight chart skipped")
				}
			}
			if notify {
				sendReport(ctx, cfg, rep)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symbols, "symbols", "", "comma-separated tickers (overrides scan.symbols)")
	cmd.Flags().StringVar(&period, "period", "", "history window: 1mo, 3mo or 6mo (overrides scan.period)")
	cmd.Flags().StringVar(&chartOut, "chart-out", "", "write the top symbol's 3mo candlestick JSON to this file")
	cmd.Flags().BoolVar(&notify, "notify", false, "push the ranking to Telegram")
	return cmd
}

func printFailures(out io.Writer, rep *screener.Report) {
	for _, f := range rep.Failures {
		fmt.Fprintf(out, "⚠️ 跳过 %s (%s): %v\n", f.Symbol, f.Stage, f.Err)
	}
	if len(rep.Failures) > 0 {
		fmt.Fprintln(out)
	}
}

func writeChart(ctx context.Context, pipeline *screener.Pipeline, symbol, path string) error {
	series, err := pipeline.Spotlight(ctx, symbol)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := report.WriteCandlestick(f, series); err != nil {
		return err
	}
	log.Info().Str("symbol", symbol).Str("path", path).Msg("candlestick chart written")
	return nil
}

func sendReport(ctx context.Context, cfg *config.Config, rep *screener.Report) {
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if err := tn.SendWithRetry(ctx, report.FormatTelegram(rep), 3); err != nil {
		log.Error().Err(err).Msg("telegram push failed")
	}
}
