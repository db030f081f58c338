package repository

import (
	"Quill/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepo interface {
	GetOrCreatePostAnalytics(ctx context.Context, postID uint64) (*model.PostAnalytics, error)
	GetOrCreateCategoryAnalytics(ctx context.Context, categoryID uint64) (*model.CategoryAnalytics, error)

	// UpdatePostAnalytics 在行锁事务内执行 apply，记录不存在时先创建。
	// 聚合周期的增量落库与同步计数都走这里，保证同一条记录不会被并发双写。
	UpdatePostAnalytics(ctx context.Context, postID uint64, apply func(a *model.PostAnalytics)) error
	UpdateCategoryAnalytics(ctx context.Context, categoryID uint64, apply func(a *model.CategoryAnalytics)) error
}

type analyticsRepoImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepo {
	return &analyticsRepoImpl{db: db}
}

func (r *analyticsRepoImpl) GetOrCreatePostAnalytics(ctx context.Context, postID uint64) (*model.PostAnalytics, error) {
	var a model.PostAnalytics
	err := r.db.WithContext(ctx).
		Where(&model.PostAnalytics{PostID: postID}).
		FirstOrCreate(&a).Error
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return &a, nil
}

func (r *analyticsRepoImpl) GetOrCreateCategoryAnalytics(ctx context.Context, categoryID uint64) (*model.CategoryAnalytics, error) {
	var a model.CategoryAnalytics
	err := r.db.WithContext(ctx).
		Where(&model.CategoryAnalytics{CategoryID: categoryID}).
		FirstOrCreate(&a).Error
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return &a, nil
}

func (r *analyticsRepoImpl) UpdatePostAnalytics(ctx context.Context, postID uint64, apply func(a *model.PostAnalytics)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.PostAnalytics
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("post_id = ?", postID).
			First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a = model.PostAnalytics{PostID: postID}
			if err = tx.Create(&a).Error; err != nil {
				if !errors.Is(translateDuplicate(err), ErrDuplicateKey) {
					return err
				}
				// 并发创建竞争失败，重读胜者的行
				if err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("post_id = ?", postID).
					First(&a).Error; err != nil {
					return err
				}
			}
		} else if err != nil {
			return err
		}

		apply(&a)
		return tx.Save(&a).Error
	})
}

func (r *analyticsRepoImpl) UpdateCategoryAnalytics(ctx context.Context, categoryID uint64, apply func(a *model.CategoryAnalytics)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.CategoryAnalytics
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category_id = ?", categoryID).
			First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a = model.CategoryAnalytics{CategoryID: categoryID}
			if err = tx.Create(&a).Error; err != nil {
				if !errors.Is(translateDuplicate(err), ErrDuplicateKey) {
					return err
				}
				if err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("category_id = ?", categoryID).
					First(&a).Error; err != nil {
					return err
				}
			}
		} else if err != nil {
			return err
		}

		apply(&a)
		return tx.Save(&a).Error
	})
}
