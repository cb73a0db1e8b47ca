package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cafeops/backend/internal/application/analytics"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// ErrSchedulerNotRunning is returned when a trigger arrives before Start.
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// RefreshSchedulerConfig holds configuration for the daily summary refresh
type RefreshSchedulerConfig struct {
	Enabled bool
	// CronHour is the hour (0-23) to run the daily refresh
	CronHour int
	// CronMinute is the minute (0-59) to run the daily refresh
	CronMinute int
	// WindowDays is how many trailing days each refresh recomputes.
	// Re-refreshing recent days picks up late-arriving ledger rows.
	WindowDays int
	// JobTimeout bounds a single refresh run
	JobTimeout time.Duration
}

// DefaultRefreshSchedulerConfig returns defaults: daily at 2:00 AM over the
// trailing 3 days.
func DefaultRefreshSchedulerConfig() RefreshSchedulerConfig {
	return RefreshSchedulerConfig{
		Enabled:    true,
		CronHour:   2,
		CronMinute: 0,
		WindowDays: 3,
		JobTimeout: 10 * time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract
// hour and minute. Returns defaults (2:00) if the expression is empty or
// unparseable fields are wildcards.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 2
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntField(parts[0]); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntField(parts[1]); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

func parseIntField(s string) (int, error) {
	val := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// RefreshScheduler runs the daily-summary refresh on a fixed daily schedule.
type RefreshScheduler struct {
	config  RefreshSchedulerConfig
	refresh *analytics.SummaryRefreshService
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewRefreshScheduler creates a new RefreshScheduler
func NewRefreshScheduler(config RefreshSchedulerConfig, refresh *analytics.SummaryRefreshService, logger *zap.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		config:  config,
		refresh: refresh,
		logger:  logger,
	}
}

// Start starts the scheduler loop
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Summary refresh scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Int("window_days", s.config.WindowDays),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Summary refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Summary refresh scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *RefreshScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runRefresh(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

func (s *RefreshScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

func (s *RefreshScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runRefresh recomputes summaries for the trailing window ending tomorrow,
// so today's partial data is included.
func (s *RefreshScheduler) runRefresh(ctx context.Context) {
	now := time.Now().UTC()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -s.config.WindowDays)

	days, err := s.refresh.RefreshRange(ctx, start, end)
	if err != nil {
		s.logger.Error("Scheduled summary refresh failed",
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled summary refresh completed",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("days", days),
	)
}

// TriggerManualRun triggers a refresh outside the schedule.
// Uses a background context so the run survives the HTTP request that
// triggered it.
func (s *RefreshScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runRefresh(context.Background())
	return nil
}

// GetStatus returns the current status of the scheduler
func (s *RefreshScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"cron_hour":   s.config.CronHour,
		"cron_minute": s.config.CronMinute,
		"window_days": s.config.WindowDays,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}
