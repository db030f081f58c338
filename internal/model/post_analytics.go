package model

import (
	"time"
)

// PostAnalytics 帖子聚合指标。click_through_rate 为派生值，
// clicks 或 impressions 任何一次变更后必须立即重算，不允许落库时滞后。
type PostAnalytics struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	PostID           uint64    `gorm:"not null;uniqueIndex:idx_post_id" json:"postId"`
	Views            int64     `gorm:"not null;default:0" json:"views"`
	Impressions      int64     `gorm:"not null;default:0" json:"impressions"`
	Clicks           int64     `gorm:"not null;default:0" json:"clicks"`
	ClickThroughRate float64   `gorm:"not null;default:0;column:click_through_rate" json:"clickThroughRate"`
	AvgTimeOnPage    float64   `gorm:"not null;default:0;column:avg_time_on_page" json:"avgTimeOnPage"`
	Likes            int64     `gorm:"not null;default:0" json:"likes"`
	Comments         int64     `gorm:"not null;default:0" json:"comments"`
	Shares           int64     `gorm:"not null;default:0" json:"shares"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (PostAnalytics) TableName() string {
	return "post_analytics"
}

// RecalculateCTR 按 clicks/impressions*100 重算点击率，无曝光时为 0
func (a *PostAnalytics) RecalculateCTR() {
	if a.Impressions > 0 {
		a.ClickThroughRate = float64(a.Clicks) / float64(a.Impressions) * 100
	} else {
		a.ClickThroughRate = 0
	}
}
