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

type CategoryService interface {
	GetCategoryList(ctx context.Context, query *dto.CategoryListQuery) (*dto.CategoryListDTO, error)

	// GetCategoryDetail 详情查询，同时记录来访者的独立阅读
	GetCategoryDetail(ctx context.Context, slug string, viewer Identity) (*dto.CategoryItemDTO, error)

	CreateCategory(ctx context.Context, req *dto.CategoryCreateDTO) (uint64, error)
	DeleteCategory(ctx context.Context, slug string) error

	ClickCategory(ctx context.Context, slug string) error
	GetCategoryAnalyticsBySlug(ctx context.Context, slug string) (*dto.CategoryAnalyticsDTO, error)
}

type categoryServiceImpl struct {
	categoryRepo   repository.CategoryRepo
	analyticsSvc   AnalyticsService
	interactionSvc InteractionService
	buffer         *counter.Buffer
	store          *cache.Store
	cacheTTL       time.Duration
}

func NewCategoryService(
	categoryRepo repository.CategoryRepo,
	analyticsSvc AnalyticsService,
	interactionSvc InteractionService,
	buffer *counter.Buffer,
	store *cache.Store,
	cacheTTL time.Duration,
) CategoryService {
	return &categoryServiceImpl{
		categoryRepo:   categoryRepo,
		analyticsSvc:   analyticsSvc,
		interactionSvc: interactionSvc,
		buffer:         buffer,
		store:          store,
		cacheTTL:       cacheTTL,
	}
}

func (s *categoryServiceImpl) GetCategoryList(ctx context.Context, query *dto.CategoryListQuery) (*dto.CategoryListDTO, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	var parentID uint64
	if query.ParentSlug != "" {
		parent, err := s.categoryRepo.GetBySlug(ctx, query.ParentSlug)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
		parentID = parent.ID
	}

	sig := fmt.Sprintf("%s%s:%d:%d", consts.CategoryListKey, query.ParentSlug, page, pageSize)
	if p, ok := s.store.Get(sig); ok {
		s.countImpressions(p.EntityIDs)
		return p.Data.(*dto.CategoryListDTO), nil
	}

	categories, err := s.categoryRepo.List(ctx, parentID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CategoryItemDTO, 0, len(categories))
	ids := make([]uint64, 0, len(categories))
	for _, category := range categories {
		item := &dto.CategoryItemDTO{}
		_ = copier.Copy(item, category)
		items = append(items, item)
		ids = append(ids, category.ID)
	}

	list := &dto.CategoryListDTO{List: items, Page: page}
	s.store.Put(sig, cache.Payload{Data: list, EntityIDs: ids}, s.cacheTTL)
	s.countImpressions(ids)
	return list, nil
}

func (s *categoryServiceImpl) GetCategoryDetail(ctx context.Context, slug string, viewer Identity) (*dto.CategoryItemDTO, error) {
	sig := consts.CategoryDetailKey + slug
	if p, ok := s.store.Get(sig); ok {
		item := p.Data.(*dto.CategoryItemDTO)
		if err := s.interactionSvc.RecordCategoryView(ctx, item.ID, viewer); err != nil {
			return nil, err
		}
		return item, nil
	}

	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	item := &dto.CategoryItemDTO{}
	_ = copier.Copy(item, category)
	s.store.Put(sig, cache.Payload{Data: item, EntityIDs: []uint64{category.ID}}, s.cacheTTL)

	if err := s.interactionSvc.RecordCategoryView(ctx, category.ID, viewer); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryCreateDTO) (uint64, error) {
	if req.ParentID > 0 {
		parent, err := s.categoryRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return 0, err
		}
		if parent == nil {
			return 0, ErrCategoryNotFound
		}
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Name)
	}
	if slug == "" {
		return 0, ErrParamInvalid
	}

	category := &model.Category{
		ParentID:    req.ParentID,
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Slug:        slug,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return 0, ErrSlugExist
		}
		return 0, err
	}

	if err := s.analyticsSvc.EnsureCategoryRecord(ctx, category.ID); err != nil {
		log.WarnContext(ctx, "ensure category analytics record error", "category_id", category.ID, "err", err)
	}

	s.store.InvalidatePrefix(consts.CategoryListKey)
	return category.ID, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return err
	}

	s.store.InvalidatePrefix(consts.CategoryListKey)
	s.store.InvalidatePrefix(consts.CategoryDetailKey + category.Slug)
	return nil
}

func (s *categoryServiceImpl) ClickCategory(ctx context.Context, slug string) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return s.analyticsSvc.IncrementClick(ctx, counter.KindCategory, category.ID)
}

func (s *categoryServiceImpl) GetCategoryAnalyticsBySlug(ctx context.Context, slug string) (*dto.CategoryAnalyticsDTO, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return s.analyticsSvc.GetCategoryAnalytics(ctx, category.ID)
}

func (s *categoryServiceImpl) countImpressions(ids []uint64) {
	for _, id := range ids {
		s.buffer.Increment(counter.Key{Kind: counter.KindCategory, ID: id}, counter.MetricImpressions, 1)
	}
}
