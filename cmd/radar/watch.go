package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"BreakoutRadar/internal/config"
	"BreakoutRadar/internal/notifier"
	"BreakoutRadar/internal/scheduler"
)

func watchCmd(ctx context.Context, load func() (*config.Config, error)) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run scheduled scans and answer Telegram commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			if err := cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			params, err := scanParams(cfg, "", "")
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			pipeline, err := buildPipeline(cfg, reg)
			if err != nil {
				return err
			}

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			sched := scheduler.NewScheduler(ctx, pipeline, params, tn)
			if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")

			srv := metricsServer(cfg.Metrics.ListenAddr, reg)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("metrics server stopped")
				}
			}()
			log.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("metrics listening")

			if runOnStart {
				go sched.RunNow()
			}

			log.Info().Str("cron", cfg.Schedule.ScanCron).Int("symbols", len(params.Symbols)).Msg("radar is running, press Ctrl+C to stop")
			<-ctx.Done()

			log.Info().Msg("shutdown signal received, stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run one scan immediately")
	return cmd
}

func metricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
