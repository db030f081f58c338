package model

import (
	"time"
)

type Category struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ParentID    uint64    `gorm:"not null;default:0;index:idx_parent_id" json:"parentId"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_slug" json:"slug"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
