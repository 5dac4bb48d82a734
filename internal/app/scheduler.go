/**
 * @description
 * Cron scheduler for the periodic ledger audit.
 */
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the ledger audit on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	auditor  *Auditor
	schedule string
	logger   *slog.Logger
}

// NewScheduler creates a new scheduler. An empty schedule disables the audit job.
func NewScheduler(auditor *Auditor, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:     c,
		auditor:  auditor,
		schedule: strings.TrimSpace(schedule),
		logger:   logger,
	}
}

// Start registers the audit job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("ledger audit job disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.runAudit); err != nil {
		s.logger.Error("failed to schedule ledger audit job", "schedule", s.schedule, "error", err)
		return err
	}
	s.logger.Info("scheduled ledger audit job", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runAudit() {
	s.logger.Info("starting ledger audit job")
	report := s.auditor.Run(context.Background())
	s.logger.Info("ledger audit job finished", "findings", len(report.Findings))
}
