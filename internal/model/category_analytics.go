package model

import (
	"time"
)

// CategoryAnalytics 分类聚合指标，派生字段约束与 PostAnalytics 相同
type CategoryAnalytics struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	CategoryID       uint64    `gorm:"not null;uniqueIndex:idx_category_id" json:"categoryId"`
	Views            int64     `gorm:"not null;default:0" json:"views"`
	Impressions      int64     `gorm:"not null;default:0" json:"impressions"`
	Clicks           int64     `gorm:"not null;default:0" json:"clicks"`
	ClickThroughRate float64   `gorm:"not null;default:0;column:click_through_rate" json:"clickThroughRate"`
	AvgTimeOnPage    float64   `gorm:"not null;default:0;column:avg_time_on_page" json:"avgTimeOnPage"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (CategoryAnalytics) TableName() string {
	return "category_analytics"
}

// RecalculateCTR 按 clicks/impressions*100 重算点击率，无曝光时为 0
func (a *CategoryAnalytics) RecalculateCTR() {
	if a.Impressions > 0 {
		a.ClickThroughRate = float64(a.Clicks) / float64(a.Impressions) * 100
	} else {
		a.ClickThroughRate = 0
	}
}
