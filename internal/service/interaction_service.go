package service

import (
	"Quill/internal/api/config"
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/counter"
	"Quill/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"
)

// Identity 一次交互的来访者身份，匿名用户 UserID 为 0
type Identity struct {
	UserID uint64
	IP     string
}

type InteractionService interface {
	// RecordPostView 记录一次帖子阅读。同一身份重复阅读不重复计数，
	// 但请求仍然成功返回。
	RecordPostView(ctx context.Context, postID uint64, viewer Identity) error

	// RecordCategoryView 记录一次分类页阅读，只做去重与缓冲计数
	RecordCategoryView(ctx context.Context, categoryID uint64, viewer Identity) error

	LikePost(ctx context.Context, slug string, viewer Identity) error
	UnlikePost(ctx context.Context, slug string, viewer Identity) error
	SharePost(ctx context.Context, slug string, req *dto.ShareCreateDTO, viewer Identity) error
	CreateComment(ctx context.Context, slug string, req *dto.CommentCreateDTO, viewer Identity) error
	DeleteComment(ctx context.Context, commentID, userID uint64) error
}

type interactionServiceImpl struct {
	viewRepo        repository.ViewRepo
	interactionRepo repository.InteractionRepo
	actionRepo      repository.PostActionRepo
	postRepo        repository.PostRepo
	analyticsSvc    AnalyticsService
	buffer          *counter.Buffer
	cfg             config.AnalyticsConfig
}

func NewInteractionService(
	viewRepo repository.ViewRepo,
	interactionRepo repository.InteractionRepo,
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	analyticsSvc AnalyticsService,
	buffer *counter.Buffer,
	cfg config.AnalyticsConfig,
) InteractionService {
	return &interactionServiceImpl{
		viewRepo:        viewRepo,
		interactionRepo: interactionRepo,
		actionRepo:      actionRepo,
		postRepo:        postRepo,
		analyticsSvc:    analyticsSvc,
		buffer:          buffer,
		cfg:             cfg,
	}
}

func (s *interactionServiceImpl) RecordPostView(ctx context.Context, postID uint64, viewer Identity) error {
	if err := s.guardAnomaly(ctx, postID, viewer); err != nil {
		return err
	}

	userID := s.dedupUserID(viewer)
	exists, err := s.viewRepo.PostViewExists(ctx, postID, userID, viewer.IP)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.viewRepo.CreatePostView(ctx, &model.PostView{
		PostID:    postID,
		UserID:    userID,
		IPAddress: viewer.IP,
	})
	if err != nil {
		// 并发请求输掉唯一索引竞争，等价于已记录过
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil
		}
		return err
	}

	// 台账已落，日志失败只告警不回滚，阅读计数照常进缓冲
	if err := s.appendInteraction(ctx, postID, viewer, consts.InteractionView, nil); err != nil {
		log.ErrorContext(ctx, "append view interaction error", "post_id", postID, "err", err)
	}

	s.buffer.Increment(counter.Key{Kind: counter.KindPost, ID: postID}, counter.MetricViews, 1)
	return nil
}

func (s *interactionServiceImpl) RecordCategoryView(ctx context.Context, categoryID uint64, viewer Identity) error {
	userID := s.dedupUserID(viewer)
	exists, err := s.viewRepo.CategoryViewExists(ctx, categoryID, userID, viewer.IP)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.viewRepo.CreateCategoryView(ctx, &model.CategoryView{
		CategoryID: categoryID,
		UserID:     userID,
		IPAddress:  viewer.IP,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil
		}
		return err
	}

	s.buffer.Increment(counter.Key{Kind: counter.KindCategory, ID: categoryID}, counter.MetricViews, 1)
	return nil
}

func (s *interactionServiceImpl) LikePost(ctx context.Context, slug string, viewer Identity) error {
	post, err := s.getPublishedPost(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.guardAnomaly(ctx, post.ID, viewer); err != nil {
		return err
	}

	err = s.actionRepo.CreateLike(ctx, &model.PostLike{
		UserID: viewer.UserID,
		PostID: post.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrActionDuplicate
		}
		return err
	}

	if err := s.appendInteraction(ctx, post.ID, viewer, consts.InteractionLike, nil); err != nil {
		return err
	}
	return s.analyticsSvc.IncrementPostMetric(ctx, post.ID, MetricLikes)
}

func (s *interactionServiceImpl) UnlikePost(ctx context.Context, slug string, viewer Identity) error {
	post, err := s.getPublishedPost(ctx, slug)
	if err != nil {
		return err
	}

	removed, err := s.actionRepo.DeleteLike(ctx, viewer.UserID, post.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrLikeNotFound
	}

	// 取消点赞不追加交互日志，直接按剩余点赞数覆写指标
	count, err := s.actionRepo.GetLikeCountByPostID(ctx, post.ID)
	if err != nil {
		return err
	}
	return s.analyticsSvc.SetPostMetric(ctx, post.ID, MetricLikes, count)
}

func (s *interactionServiceImpl) SharePost(ctx context.Context, slug string, req *dto.ShareCreateDTO, viewer Identity) error {
	post, err := s.getPublishedPost(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.guardAnomaly(ctx, post.ID, viewer); err != nil {
		return err
	}

	platform := req.Platform
	if platform == "" {
		platform = "other"
	}
	if _, ok := consts.SharePlatforms[platform]; !ok {
		return ErrPlatformInvalid
	}

	err = s.actionRepo.CreateShare(ctx, &model.PostShare{
		PostID:   post.ID,
		UserID:   viewer.UserID,
		Platform: platform,
	})
	if err != nil {
		return err
	}

	if err := s.appendInteraction(ctx, post.ID, viewer, consts.InteractionShare, nil); err != nil {
		return err
	}
	return s.analyticsSvc.IncrementPostMetric(ctx, post.ID, MetricShares)
}

func (s *interactionServiceImpl) CreateComment(ctx context.Context, slug string, req *dto.CommentCreateDTO, viewer Identity) error {
	post, err := s.getPublishedPost(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.guardAnomaly(ctx, post.ID, viewer); err != nil {
		return err
	}

	if req.ParentID > 0 {
		parent, err := s.actionRepo.GetCommentByID(ctx, req.ParentID)
		if err != nil {
			return err
		}
		if parent == nil || parent.PostID != post.ID {
			return ErrPostCommentNotFound
		}
	}

	comment := &model.PostComment{
		PostID:   post.ID,
		UserID:   viewer.UserID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := s.actionRepo.CreateComment(ctx, comment); err != nil {
		return err
	}

	if err := s.appendInteraction(ctx, post.ID, viewer, consts.InteractionComment, &comment.ID); err != nil {
		return err
	}
	return s.analyticsSvc.IncrementPostMetric(ctx, post.ID, MetricComments)
}

func (s *interactionServiceImpl) DeleteComment(ctx context.Context, commentID, userID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrPostCommentNotFound
	}
	if comment.UserID != userID {
		return UnauthorizedError
	}

	if err := s.actionRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	count, err := s.actionRepo.GetCommentCountByPostID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	return s.analyticsSvc.SetPostMetric(ctx, comment.PostID, MetricComments, count)
}

// appendInteraction 追加一条规范化交互日志。
// comment_id 当且仅当评论事件携带，其余组合视为非法。
func (s *interactionServiceImpl) appendInteraction(ctx context.Context, postID uint64, viewer Identity, interactionType string, commentID *uint64) error {
	if (interactionType == consts.InteractionComment) != (commentID != nil) {
		return ErrInteractionInvalid
	}

	category := consts.InteractionCategoryActive
	if interactionType == consts.InteractionView {
		category = consts.InteractionCategoryPassive
	}

	now := time.Now()
	return s.interactionRepo.Create(ctx, &model.PostInteraction{
		PostID:    postID,
		UserID:    viewer.UserID,
		Type:      interactionType,
		CommentID: commentID,
		Weight:    1,
		Category:  category,
		IPAddress: viewer.IP,
		HourOfDay: now.Hour(),
		DayOfWeek: int(now.Weekday()),
		CreatedAt: now,
	})
}

// guardAnomaly 窗口内事件数达到阈值后拒绝后续交互
func (s *interactionServiceImpl) guardAnomaly(ctx context.Context, postID uint64, viewer Identity) error {
	window := time.Duration(s.cfg.AnomalyWindow) * time.Second
	count, err := s.interactionRepo.CountRecent(ctx, postID, viewer.UserID, viewer.IP, window)
	if err != nil {
		return err
	}
	if count >= int64(s.cfg.AnomalyThreshold) {
		return ErrActionAnomalous
	}
	return nil
}

func (s *interactionServiceImpl) dedupUserID(viewer Identity) uint64 {
	if !s.cfg.DedupByUser {
		return 0
	}
	return viewer.UserID
}

func (s *interactionServiceImpl) getPublishedPost(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}
