package repository

import (
	"Quill/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostActionRepo interface {
	CreateLike(ctx context.Context, like *model.PostLike) error
	DeleteLike(ctx context.Context, userID, postID uint64) (bool, error)
	GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error)

	CreateShare(ctx context.Context, share *model.PostShare) error
	GetShareCountByPostID(ctx context.Context, postID uint64) (int64, error)

	CreateComment(ctx context.Context, comment *model.PostComment) error
	DeleteComment(ctx context.Context, commentID uint64) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error)
}

type postActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &postActionRepoImpl{db: db}
}

// CreateLike 复合主键兜底去重，重复点赞返回 ErrDuplicateKey
func (r *postActionRepoImpl) CreateLike(ctx context.Context, like *model.PostLike) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(like).Error)
}

func (r *postActionRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostLike{})
	return result.RowsAffected > 0, result.Error
}

func (r *postActionRepoImpl) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *postActionRepoImpl) CreateShare(ctx context.Context, share *model.PostShare) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *postActionRepoImpl) GetShareCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostShare{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *postActionRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", commentID).
		Delete(&model.PostComment{}).Error
}

func (r *postActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := r.db.WithContext(ctx).
		Where("id = ?", commentID).
		First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *postActionRepoImpl) GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
