package repository

import (
	"Quill/internal/model"
	"Quill/internal/pkg/consts"
	"context"
	"errors"

	"gorm.io/gorm"
)

// PostQuery 列表查询参数，规范化后同时作为响应缓存签名的输入
type PostQuery struct {
	CategoryID   uint64
	Search       string
	Sort         string // newest | oldest | title
	Page         int
	PageSize     int
	IncludeDraft bool
}

type PostRepo interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, postID uint64) error
	GetByID(ctx context.Context, postID uint64) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Post, error)
	List(ctx context.Context, q *PostQuery) ([]*model.Post, error)
}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepoImpl{db: db}
}

func (r *postRepoImpl) Create(ctx context.Context, post *model.Post) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepoImpl) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepoImpl) Delete(ctx context.Context, postID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", postID).
		Delete(&model.Post{}).Error
}

func (r *postRepoImpl) GetByID(ctx context.Context, postID uint64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("id = ?", postID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepoImpl) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Post, error) {
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("status = ?", consts.PostStatusPublished)
	}
	var post model.Post
	err := query.First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepoImpl) List(ctx context.Context, q *PostQuery) ([]*model.Post, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{})
	if !q.IncludeDraft {
		query = query.Where("status = ?", consts.PostStatusPublished)
	}
	if q.CategoryID > 0 {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR keywords LIKE ?", like, like, like)
	}

	switch q.Sort {
	case "oldest":
		query = query.Order("created_at ASC")
	case "title":
		query = query.Order("title ASC")
	default:
		query = query.Order("created_at DESC")
	}

	posts := make([]*model.Post, 0)
	err := query.Limit(q.PageSize).Offset((q.Page - 1) * q.PageSize).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
