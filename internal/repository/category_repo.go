package repository

import (
	"Quill/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoryRepo interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, categoryID uint64) error
	GetByID(ctx context.Context, categoryID uint64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, parentID uint64, page, pageSize int) ([]*model.Category, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepoImpl{db: db}
}

func (r *categoryRepoImpl) Create(ctx context.Context, category *model.Category) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepoImpl) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepoImpl) Delete(ctx context.Context, categoryID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		Delete(&model.Category{}).Error
}

func (r *categoryRepoImpl) GetByID(ctx context.Context, categoryID uint64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepoImpl) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepoImpl) List(ctx context.Context, parentID uint64, page, pageSize int) ([]*model.Category, error) {
	query := r.db.WithContext(ctx).Model(&model.Category{})
	if parentID > 0 {
		query = query.Where("parent_id = ?", parentID)
	}

	categories := make([]*model.Category, 0)
	err := query.Order("name ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
