package model

import (
	"time"
)

// PostView 去重台账：同一 (post, user, ip) 只记一次独立阅读。
// 唯一索引是并发 check-then-insert 的最终裁决。
type PostView struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;uniqueIndex:idx_post_viewer" json:"postId"`
	UserID    uint64    `gorm:"not null;default:0;uniqueIndex:idx_post_viewer" json:"userId"`
	IPAddress string    `gorm:"type:varchar(45);not null;uniqueIndex:idx_post_viewer;column:ip_address" json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostView) TableName() string {
	return "post_views"
}
