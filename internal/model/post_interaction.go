package model

import (
	"time"
)

// PostInteraction 规范化交互日志，只追加不修改。
// hour_of_day / day_of_week 在创建时固化，便于离线分析。
type PostInteraction struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_post_user_time" json:"postId"`
	UserID    uint64    `gorm:"not null;default:0;index:idx_post_user_time" json:"userId"`
	Type      string    `gorm:"type:varchar(16);not null" json:"type"`
	CommentID *uint64   `json:"commentId"`
	Weight    float64   `gorm:"not null;default:1" json:"weight"`
	Category  string    `gorm:"type:varchar(16);not null" json:"category"`
	IPAddress string    `gorm:"type:varchar(45);not null;column:ip_address" json:"ipAddress"`
	HourOfDay int       `gorm:"not null" json:"hourOfDay"`
	DayOfWeek int       `gorm:"not null" json:"dayOfWeek"`
	CreatedAt time.Time `gorm:"index:idx_post_user_time" json:"createdAt"`
}

func (PostInteraction) TableName() string {
	return "post_interactions"
}
