package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/cache"
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/counter"
	"Quill/internal/pkg/util"
	"Quill/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type PostService interface {
	// GetPostList 读穿缓存的列表查询，无论命中与否都为返回的每个帖子补记 impression
	GetPostList(ctx context.Context, query *dto.PostListQuery) (*dto.PostListDTO, error)

	// GetPostDetail 详情查询，同时记录来访者的独立阅读
	GetPostDetail(ctx context.Context, slug string, viewer Identity) (*dto.PostDetailDTO, error)

	CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (uint64, error)
	UpdatePost(ctx context.Context, userID uint64, slug string, req *dto.PostUpdateDTO) error
	DeletePost(ctx context.Context, userID uint64, slug string) error

	// ClickPost 同步记录一次点击并重算点击率
	ClickPost(ctx context.Context, slug string) error

	GetPostAnalyticsBySlug(ctx context.Context, slug string) (*dto.PostAnalyticsDTO, error)
}

type postServiceImpl struct {
	postRepo       repository.PostRepo
	categoryRepo   repository.CategoryRepo
	analyticsSvc   AnalyticsService
	interactionSvc InteractionService
	buffer         *counter.Buffer
	store          *cache.Store
	cacheTTL       time.Duration
}

func NewPostService(
	postRepo repository.PostRepo,
	categoryRepo repository.CategoryRepo,
	analyticsSvc AnalyticsService,
	interactionSvc InteractionService,
	buffer *counter.Buffer,
	store *cache.Store,
	cacheTTL time.Duration,
) PostService {
	return &postServiceImpl{
		postRepo:       postRepo,
		categoryRepo:   categoryRepo,
		analyticsSvc:   analyticsSvc,
		interactionSvc: interactionSvc,
		buffer:         buffer,
		store:          store,
		cacheTTL:       cacheTTL,
	}
}

func (s *postServiceImpl) GetPostList(ctx context.Context, query *dto.PostListQuery) (*dto.PostListDTO, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	sort := query.Sort
	if sort == "" {
		sort = "newest"
	}

	var categoryID uint64
	if query.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, query.CategorySlug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		categoryID = category.ID
	}

	// 规范化后的查询参数构成缓存签名
	sig := fmt.Sprintf("%s%s:%s:%s:%d:%d",
		consts.PostListKey, query.CategorySlug, query.Search, sort, page, pageSize)
	if p, ok := s.store.Get(sig); ok {
		s.countImpressions(p.EntityIDs)
		return p.Data.(*dto.PostListDTO), nil
	}

	posts, err := s.postRepo.List(ctx, &repository.PostQuery{
		CategoryID: categoryID,
		Search:     query.Search,
		Sort:       sort,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PostItemDTO, 0, len(posts))
	ids := make([]uint64, 0, len(posts))
	for _, post := range posts {
		item := &dto.PostItemDTO{}
		_ = copier.Copy(item, post)
		item.CreatedAt = post.CreatedAt.Format(time.DateTime)
		items = append(items, item)
		ids = append(ids, post.ID)
	}

	list := &dto.PostListDTO{List: items, Page: page}
	s.store.Put(sig, cache.Payload{Data: list, EntityIDs: ids}, s.cacheTTL)
	s.countImpressions(ids)
	return list, nil
}

func (s *postServiceImpl) GetPostDetail(ctx context.Context, slug string, viewer Identity) (*dto.PostDetailDTO, error) {
	sig := consts.PostDetailKey + slug
	if p, ok := s.store.Get(sig); ok {
		detail := p.Data.(*dto.PostDetailDTO)
		if err := s.interactionSvc.RecordPostView(ctx, detail.ID, viewer); err != nil {
			return nil, err
		}
		return detail, nil
	}

	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	detail := &dto.PostDetailDTO{}
	_ = copier.Copy(detail, post)
	detail.CreatedAt = post.CreatedAt.Format(time.DateTime)
	detail.UpdatedAt = post.UpdatedAt.Format(time.DateTime)

	s.store.Put(sig, cache.Payload{Data: detail, EntityIDs: []uint64{post.ID}}, s.cacheTTL)

	if err := s.interactionSvc.RecordPostView(ctx, post.ID, viewer); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (uint64, error) {
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return 0, err
	}
	if category == nil {
		return 0, ErrCategoryNotFound
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
	}
	if slug == "" {
		return 0, ErrParamInvalid
	}

	status := consts.PostStatusDraft
	if req.Publish {
		status = consts.PostStatusPublished
	}

	post := &model.Post{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Keywords:    req.Keywords,
		Slug:        slug,
		Status:      status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return 0, ErrSlugExist
		}
		return 0, err
	}

	// 计数行跟随帖子创建；失败不影响帖子本身，后续读写会按需补建
	if err := s.analyticsSvc.EnsurePostRecord(ctx, post.ID); err != nil {
		log.WarnContext(ctx, "ensure post analytics record error", "post_id", post.ID, "err", err)
	}

	s.store.InvalidatePrefix(consts.PostListKey)
	return post.ID, nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID uint64, slug string, req *dto.PostUpdateDTO) error {
	post, err := s.postRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Description != "" {
		post.Description = req.Description
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Keywords != "" {
		post.Keywords = req.Keywords
	}
	if req.Publish != nil {
		if *req.Publish {
			post.Status = consts.PostStatusPublished
		} else {
			post.Status = consts.PostStatusDraft
		}
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return err
	}

	s.store.InvalidatePrefix(consts.PostListKey)
	s.store.InvalidatePrefix(consts.PostDetailKey + post.Slug)
	return nil
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, slug string) error {
	post, err := s.postRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}

	s.store.InvalidatePrefix(consts.PostListKey)
	s.store.InvalidatePrefix(consts.PostDetailKey + post.Slug)
	return nil
}

func (s *postServiceImpl) ClickPost(ctx context.Context, slug string) error {
	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return s.analyticsSvc.IncrementClick(ctx, counter.KindPost, post.ID)
}

func (s *postServiceImpl) GetPostAnalyticsBySlug(ctx context.Context, slug string) (*dto.PostAnalyticsDTO, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.analyticsSvc.GetPostAnalytics(ctx, post.ID)
}

func (s *postServiceImpl) countImpressions(ids []uint64) {
	for _, id := range ids {
		s.buffer.Increment(counter.Key{Kind: counter.KindPost, ID: id}, counter.MetricImpressions, 1)
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
