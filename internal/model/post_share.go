package model

import (
	"time"
)

type PostShare struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_post_id" json:"postId"`
	UserID    uint64    `gorm:"not null;default:0" json:"userId"`
	Platform  string    `gorm:"type:varchar(32);not null" json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostShare) TableName() string {
	return "post_shares"
}
