package job

import (
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/logger"
	"Quill/internal/pkg/redis"
	"Quill/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

type AnalyticsFlushJob struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsFlushJob(analyticsSvc service.AnalyticsService) *AnalyticsFlushJob {
	return &AnalyticsFlushJob{
		analyticsSvc: analyticsSvc,
	}
}

func (s *AnalyticsFlushJob) Run() {
	traceID := "job-analytics-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 多实例部署时同一周期只允许一个实例刷盘
	locked, err := redis.TryLock(ctx, consts.AnalyticsFlushLock, traceID, time.Minute, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire analytics flush lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.AnalyticsFlushLock, traceID)

	applied, requeued := s.analyticsSvc.Flush(ctx)
	if applied == 0 && requeued == 0 {
		return
	}

	log.InfoContext(ctx, "flush analytics counters finished",
		"applied", applied,
		"requeued", requeued)
}
