package dto

// PostCreateDTO 创建帖子请求
type PostCreateDTO struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=256"`
	Content     string `json:"content"`
	Keywords    string `json:"keywords" binding:"max=128"`
	Slug        string `json:"slug" binding:"max=128"`
	CategoryID  uint64 `json:"category_id" binding:"required"`
	Publish     bool   `json:"publish"`
}

// PostUpdateDTO 更新帖子请求
type PostUpdateDTO struct {
	Title       string `json:"title" binding:"max=128"`
	Description string `json:"description" binding:"max=256"`
	Content     string `json:"content"`
	Keywords    string `json:"keywords" binding:"max=128"`
	Publish     *bool  `json:"publish"`
}

// PostListQuery 列表查询参数
type PostListQuery struct {
	CategorySlug string `form:"category"`
	Search       string `form:"search"`
	Sort         string `form:"sort" binding:"omitempty,oneof=newest oldest title"`
	Page         int    `form:"p"`
	PageSize     int    `form:"page_size" binding:"omitempty,max=100"`
}

// PostItemDTO 列表项
type PostItemDTO struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	CategoryID  uint64 `json:"category_id"`
	CreatedAt   string `json:"created_at"`
}

// PostListDTO 列表响应
type PostListDTO struct {
	List []*PostItemDTO `json:"list"`
	Page int            `json:"page"`
}

// PostDetailDTO 详情响应
type PostDetailDTO struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Keywords    string `json:"keywords"`
	Slug        string `json:"slug"`
	CategoryID  uint64 `json:"category_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
