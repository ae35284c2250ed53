package service

import (
	"context"

	"futures-signal-bot/config"
	"futures-signal-bot/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the monitor cadence, one cycle per cron tick.
type Scheduler struct {
	cfg     *config.Config
	log     *logger.Logger
	cron    *cron.Cron
	monitor MonitorService
}

func NewScheduler(cfg *config.Config, log *logger.Logger, monitor MonitorService) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		log:     log,
		cron:    cron.New(),
		monitor: monitor,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Monitor.CronExpression, func() {
		if err := s.monitor.RunCycle(ctx); err != nil {
			s.log.ErrorContext(ctx, "Monitor cycle failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("Starting monitor scheduler",
		logger.StringField("cron_expression", s.cfg.Monitor.CronExpression))
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Monitor scheduler stopped")
}
