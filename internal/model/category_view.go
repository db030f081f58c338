package model

import (
	"time"
)

type CategoryView struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	CategoryID uint64    `gorm:"not null;uniqueIndex:idx_category_viewer" json:"categoryId"`
	UserID     uint64    `gorm:"not null;default:0;uniqueIndex:idx_category_viewer" json:"userId"`
	IPAddress  string    `gorm:"type:varchar(45);not null;uniqueIndex:idx_category_viewer;column:ip_address" json:"ipAddress"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (CategoryView) TableName() string {
	return "category_views"
}
