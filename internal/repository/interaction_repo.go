package repository

import (
	"Quill/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// InteractionRepo 交互日志，只追加
type InteractionRepo interface {
	Create(ctx context.Context, interaction *model.PostInteraction) error

	// CountRecent 统计窗口内同一身份对同一帖子的事件数，用于异常流量防护。
	// 登录用户按 user_id 统计，匿名用户退化为按 ip 统计。
	CountRecent(ctx context.Context, postID, userID uint64, ip string, window time.Duration) (int64, error)
}

type interactionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &interactionRepoImpl{db: db}
}

func (r *interactionRepoImpl) Create(ctx context.Context, interaction *model.PostInteraction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

func (r *interactionRepoImpl) CountRecent(ctx context.Context, postID, userID uint64, ip string, window time.Duration) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.PostInteraction{}).
		Where("post_id = ? AND created_at >= ?", postID, time.Now().Add(-window))
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	} else {
		query = query.Where("ip_address = ?", ip)
	}
	err := query.Count(&count).Error
	return count, err
}
