package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/counter"
	"Quill/internal/repository"
	"context"
	"errors"
	log "log/slog"
)

// 同步计数路径允许的指标，低频高价值信号不走缓冲
const (
	MetricViews    = "views"
	MetricLikes    = "likes"
	MetricComments = "comments"
	MetricShares   = "shares"
)

type AnalyticsService interface {
	// Flush 将缓冲计数批量落库。单个 key 落库失败时其增量合并回缓冲，
	// 等待下个周期重试，不影响本周期内其它 key。
	Flush(ctx context.Context) (applied int, requeued int)

	// IncrementClick 同步点击计数，落库后立即重算点击率
	IncrementClick(ctx context.Context, kind counter.EntityKind, entityID uint64) error

	// IncrementPostMetric 同步累加一项帖子指标，指标名不在白名单内时返回 ErrUnknownMetric
	IncrementPostMetric(ctx context.Context, postID uint64, metric string) error

	// SetPostMetric 同步覆写一项帖子指标（如取消点赞后的重新计数）
	SetPostMetric(ctx context.Context, postID uint64, metric string, value int64) error

	EnsurePostRecord(ctx context.Context, postID uint64) error
	EnsureCategoryRecord(ctx context.Context, categoryID uint64) error

	GetPostAnalytics(ctx context.Context, postID uint64) (*dto.PostAnalyticsDTO, error)
	GetCategoryAnalytics(ctx context.Context, categoryID uint64) (*dto.CategoryAnalyticsDTO, error)
}

type analyticsServiceImpl struct {
	buffer        *counter.Buffer
	analyticsRepo repository.AnalyticsRepo
}

func NewAnalyticsService(buffer *counter.Buffer, analyticsRepo repository.AnalyticsRepo) AnalyticsService {
	return &analyticsServiceImpl{
		buffer:        buffer,
		analyticsRepo: analyticsRepo,
	}
}

func (s *analyticsServiceImpl) Flush(ctx context.Context) (int, int) {
	entries := s.buffer.DrainAll()
	if len(entries) == 0 {
		return 0, 0
	}

	applied, requeued := 0, 0
	for _, e := range entries {
		if err := s.applyDelta(ctx, e); err != nil {
			if errors.Is(err, ErrUnknownMetric) {
				// 实体类型非法说明是编程错误，重试无意义，丢弃并告警
				log.ErrorContext(ctx, "drop delta with unknown entity kind",
					"kind", e.Key.Kind, "id", e.Key.ID)
				continue
			}
			log.ErrorContext(ctx, "apply analytics delta error, requeued",
				"kind", e.Key.Kind, "id", e.Key.ID, "err", err)
			s.buffer.Merge([]counter.Entry{e})
			requeued++
			continue
		}
		applied++
	}
	return applied, requeued
}

func (s *analyticsServiceImpl) applyDelta(ctx context.Context, e counter.Entry) error {
	switch e.Key.Kind {
	case counter.KindPost:
		return s.analyticsRepo.UpdatePostAnalytics(ctx, e.Key.ID, func(a *model.PostAnalytics) {
			a.Views += e.Delta[counter.MetricViews]
			a.Impressions += e.Delta[counter.MetricImpressions]
			a.RecalculateCTR()
		})
	case counter.KindCategory:
		return s.analyticsRepo.UpdateCategoryAnalytics(ctx, e.Key.ID, func(a *model.CategoryAnalytics) {
			a.Views += e.Delta[counter.MetricViews]
			a.Impressions += e.Delta[counter.MetricImpressions]
			a.RecalculateCTR()
		})
	default:
		return ErrUnknownMetric
	}
}

func (s *analyticsServiceImpl) IncrementClick(ctx context.Context, kind counter.EntityKind, entityID uint64) error {
	switch kind {
	case counter.KindPost:
		return s.analyticsRepo.UpdatePostAnalytics(ctx, entityID, func(a *model.PostAnalytics) {
			a.Clicks++
			a.RecalculateCTR()
		})
	case counter.KindCategory:
		return s.analyticsRepo.UpdateCategoryAnalytics(ctx, entityID, func(a *model.CategoryAnalytics) {
			a.Clicks++
			a.RecalculateCTR()
		})
	default:
		return ErrUnknownMetric
	}
}

func (s *analyticsServiceImpl) IncrementPostMetric(ctx context.Context, postID uint64, metric string) error {
	apply, err := postMetricApplier(metric, func(cur int64) int64 { return cur + 1 })
	if err != nil {
		return err
	}
	return s.analyticsRepo.UpdatePostAnalytics(ctx, postID, apply)
}

func (s *analyticsServiceImpl) SetPostMetric(ctx context.Context, postID uint64, metric string, value int64) error {
	apply, err := postMetricApplier(metric, func(int64) int64 { return value })
	if err != nil {
		return err
	}
	return s.analyticsRepo.UpdatePostAnalytics(ctx, postID, apply)
}

// postMetricApplier 把指标名映射为封闭的字段更新，替代按名字反射取属性的写法
func postMetricApplier(metric string, next func(cur int64) int64) (func(a *model.PostAnalytics), error) {
	switch metric {
	case MetricViews:
		return func(a *model.PostAnalytics) { a.Views = next(a.Views) }, nil
	case MetricLikes:
		return func(a *model.PostAnalytics) { a.Likes = next(a.Likes) }, nil
	case MetricComments:
		return func(a *model.PostAnalytics) { a.Comments = next(a.Comments) }, nil
	case MetricShares:
		return func(a *model.PostAnalytics) { a.Shares = next(a.Shares) }, nil
	default:
		return nil, ErrUnknownMetric
	}
}

func (s *analyticsServiceImpl) EnsurePostRecord(ctx context.Context, postID uint64) error {
	_, err := s.analyticsRepo.GetOrCreatePostAnalytics(ctx, postID)
	return err
}

func (s *analyticsServiceImpl) EnsureCategoryRecord(ctx context.Context, categoryID uint64) error {
	_, err := s.analyticsRepo.GetOrCreateCategoryAnalytics(ctx, categoryID)
	return err
}

func (s *analyticsServiceImpl) GetPostAnalytics(ctx context.Context, postID uint64) (*dto.PostAnalyticsDTO, error) {
	a, err := s.analyticsRepo.GetOrCreatePostAnalytics(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &dto.PostAnalyticsDTO{
		PostID:           a.PostID,
		Views:            a.Views,
		Impressions:      a.Impressions,
		Clicks:           a.Clicks,
		ClickThroughRate: a.ClickThroughRate,
		AvgTimeOnPage:    a.AvgTimeOnPage,
		Likes:            a.Likes,
		Comments:         a.Comments,
		Shares:           a.Shares,
	}, nil
}

func (s *analyticsServiceImpl) GetCategoryAnalytics(ctx context.Context, categoryID uint64) (*dto.CategoryAnalyticsDTO, error) {
	a, err := s.analyticsRepo.GetOrCreateCategoryAnalytics(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryAnalyticsDTO{
		CategoryID:       a.CategoryID,
		Views:            a.Views,
		Impressions:      a.Impressions,
		Clicks:           a.Clicks,
		ClickThroughRate: a.ClickThroughRate,
		AvgTimeOnPage:    a.AvgTimeOnPage,
	}, nil
}
