package model

import (
	"time"
)

type Post struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	CategoryID  uint64    `gorm:"not null;index:idx_category_id" json:"categoryId"`
	Title       string    `gorm:"type:varchar(128);not null" json:"title"`
	Description string    `gorm:"type:varchar(256)" json:"description"`
	Content     string    `gorm:"type:longtext" json:"content"`
	Keywords    string    `gorm:"type:varchar(128)" json:"keywords"`
	Slug        string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_slug" json:"slug"`
	Status      int8      `gorm:"not null;default:0" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}
