package cron

import (
	"Quill/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	flushJob      *job.AnalyticsFlushJob
	flushInterval int
}

func NewCronManager(flushJob *job.AnalyticsFlushJob, flushInterval int) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		flushJob:      flushJob,
		flushInterval: flushInterval,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	spec := fmt.Sprintf("@every %ds", s.flushInterval)
	if _, err := s.engine.AddJob(spec, s.flushJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
