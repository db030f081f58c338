package dto

// CategoryCreateDTO 创建分类请求
type CategoryCreateDTO struct {
	Name        string `json:"name" binding:"required,max=255"`
	Title       string `json:"title" binding:"max=255"`
	Description string `json:"description"`
	Slug        string `json:"slug" binding:"max=128"`
	ParentID    uint64 `json:"parent_id"`
}

// CategoryListQuery 分类列表查询参数
type CategoryListQuery struct {
	ParentSlug string `form:"parent"`
	Page       int    `form:"p"`
	PageSize   int    `form:"page_size" binding:"omitempty,max=100"`
}

// CategoryItemDTO 分类列表项
type CategoryItemDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	ParentID    uint64 `json:"parent_id"`
}

// CategoryListDTO 分类列表响应
type CategoryListDTO struct {
	List []*CategoryItemDTO `json:"list"`
	Page int                `json:"page"`
}
