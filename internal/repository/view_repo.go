package repository

import (
	"Quill/internal/model"
	"context"

	"gorm.io/gorm"
)

// ViewRepo 独立阅读去重台账
type ViewRepo interface {
	PostViewExists(ctx context.Context, postID, userID uint64, ip string) (bool, error)
	CreatePostView(ctx context.Context, view *model.PostView) error
	CategoryViewExists(ctx context.Context, categoryID, userID uint64, ip string) (bool, error)
	CreateCategoryView(ctx context.Context, view *model.CategoryView) error
}

type viewRepoImpl struct {
	db *gorm.DB
}

func NewViewRepo(db *gorm.DB) ViewRepo {
	return &viewRepoImpl{db: db}
}

func (r *viewRepoImpl) PostViewExists(ctx context.Context, postID, userID uint64, ip string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostView{}).
		Where("post_id = ? AND user_id = ? AND ip_address = ?", postID, userID, ip).
		Count(&count).Error
	return count > 0, err
}

// CreatePostView 台账插入，竞争输掉唯一索引时返回 ErrDuplicateKey
func (r *viewRepoImpl) CreatePostView(ctx context.Context, view *model.PostView) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(view).Error)
}

func (r *viewRepoImpl) CategoryViewExists(ctx context.Context, categoryID, userID uint64, ip string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CategoryView{}).
		Where("category_id = ? AND user_id = ? AND ip_address = ?", categoryID, userID, ip).
		Count(&count).Error
	return count > 0, err
}

func (r *viewRepoImpl) CreateCategoryView(ctx context.Context, view *model.CategoryView) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(view).Error)
}
