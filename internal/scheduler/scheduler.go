package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"BreakoutRadar/internal/report"
	"BreakoutRadar/internal/screener"
)

// Scanner runs one screening pass.
type Scanner interface {
	Run(ctx context.Context, params screener.Params) (*screener.Report, error)
}

// Sender delivers a rendered message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs scans on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  Scanner
	Params   screener.Params
	Notifier Sender
	Ctx      context.Context

	mu       sync.Mutex
	last     *screener.Report
	scanning atomic.Bool
	wg       sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, scanner Scanner, params screener.Params, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  scanner,
		Params:   params,
		Notifier: sender,
		Ctx:      ctx,
	}
}

// Register adds the scan task. scanCron uses the six-field (seconds) format.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running scans to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the scan task immediately.
func (s *Scheduler) RunNow() {
	s.scanTask()
}

// LastReport returns the most recent report, or nil before the first scan.
func (s *Scheduler) LastReport() *screener.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// scanTask runs one scan. Overlapping calls are dropped.
func (s *Scheduler) scanTask() {
	if !s.scanning.CompareAndSwap(false, true) {
		log.Warn().Msg("scan already in progress, skipping")
		return
	}
	defer s.scanning.Store(false)

	log.Info().Msg("running scheduled scan")
	rep, err := s.Scanner.Run(s.Ctx, s.Params)
	if rep == nil {
		log.Error().Err(err).Msg("scan failed")
		s.trySend(fmt.Sprintf("❌ 扫描失败: %v", err))
		return
	}
	if err != nil && !errors.Is(err, screener.ErrNoResults) {
		log.Error().Err(err).Msg("scan failed")
	}

	s.mu.Lock()
	s.last = rep
	s.mu.Unlock()

	s.trySend(report.FormatTelegram(rep))
	if top, ok := rep.Top(); ok {
		s.trySend("📋 <pre>" + report.FormatPrompt(top) + "</pre>")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	switch command {
	case "/scan", "开始全量扫描":
		if s.scanning.Load() {
			return "⏳ 扫描进行中，请稍候"
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.scanTask()
		}()
		return "🔎 扫描已开始，完成后推送结果"
	case "/top", "深度聚焦":
		rep := s.LastReport()
		top, ok := rep.Top()
		if !ok {
			return "暂无扫描结果，发送 /scan 开始扫描"
		}
		return "📋 <pre>" + report.FormatPrompt(top) + "</pre>"
	default:
		return "可用命令:\n• /scan 开始全量扫描\n• /top 查看最高分股票提示词"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification failed")
	}
}
