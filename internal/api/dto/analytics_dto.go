package dto

// PostAnalyticsDTO 帖子聚合指标响应
type PostAnalyticsDTO struct {
	PostID           uint64  `json:"post_id"`
	Views            int64   `json:"views"`
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	ClickThroughRate float64 `json:"click_through_rate"`
	AvgTimeOnPage    float64 `json:"avg_time_on_page"`
	Likes            int64   `json:"likes"`
	Comments         int64   `json:"comments"`
	Shares           int64   `json:"shares"`
}

// CategoryAnalyticsDTO 分类聚合指标响应
type CategoryAnalyticsDTO struct {
	CategoryID       uint64  `json:"category_id"`
	Views            int64   `json:"views"`
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	ClickThroughRate float64 `json:"click_through_rate"`
	AvgTimeOnPage    float64 `json:"avg_time_on_page"`
}
