package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/courtside/internal/config"
	"github.com/omarshaarawi/courtside/internal/service"
	"github.com/omarshaarawi/courtside/internal/session"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	s                gocron.Scheduler
	cfg              config.Schedule
	directoryService *service.DirectoryService
	fantasyService   *service.FantasyService
	sessions         *session.Manager
	alertKey         string
	sendMessage      func(string) error
}

// NewScheduler wires the periodic jobs. sendMessage may be nil when no chat
// is configured, in which case the coverage alert job is not registered.
func NewScheduler(cfg config.Schedule, directoryService *service.DirectoryService, fantasyService *service.FantasyService, sessions *session.Manager, alertKey string, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:                s,
		cfg:              cfg,
		directoryService: directoryService,
		fantasyService:   fantasyService,
		sessions:         sessions,
		alertKey:         alertKey,
		sendMessage:      sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.cfg.DirectoryRefreshCron, false),
		gocron.NewTask(s.refreshDirectory),
	)
	if err != nil {
		return fmt.Errorf("failed to create directory refresh job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.DurationJob(s.cfg.SessionSweep),
		gocron.NewTask(s.evictIdleSessions),
	)
	if err != nil {
		return fmt.Errorf("failed to create session sweep job: %w", err)
	}

	if s.sendMessage != nil {
		_, err = s.s.NewJob(
			gocron.CronJob(s.cfg.CoverageAlertCron, false),
			gocron.NewTask(s.sendCoverageAlert),
		)
		if err != nil {
			return fmt.Errorf("failed to create coverage alert job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.directoryService.Refresh(ctx); err != nil {
		slog.Error("Failed to refresh directory", "error", err)
	}
}

func (s *Scheduler) evictIdleSessions() {
	if n := s.sessions.EvictIdle(s.cfg.SessionIdleTTL); n > 0 {
		slog.Info("Evicted idle sessions", "count", n)
	}
}

func (s *Scheduler) sendCoverageAlert() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.fantasyService.CoverageAlert(ctx, s.alertKey)
	if err != nil {
		slog.Error("Failed to get coverage alert", "error", err)
		return
	}
	if report == "" {
		slog.Info("No coverage problems to report", "session", s.alertKey)
		return
	}
	if err := s.sendMessage(report); err != nil {
		slog.Error("Failed to send coverage alert", "error", err)
	}
}
