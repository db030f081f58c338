package dto

// ShareCreateDTO 分享请求
type ShareCreateDTO struct {
	Platform string `json:"platform" binding:"omitempty,max=32"`
}

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	Content  string `json:"content" binding:"required,max=1000"`
	ParentID uint64 `json:"parent_id"`
}
