package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// viewerIdentity 从请求上下文提取来访者身份，未登录时 UserID 为 0
func viewerIdentity(c *gin.Context) service.Identity {
	return service.Identity{
		UserID: c.GetUint64("user_id"),
		IP:     c.ClientIP(),
	}
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	var query dto.PostListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.postSvc.GetPostList(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := s.postSvc.GetPostDetail(c.Request.Context(), slug, viewerIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PostCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	id, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	slug := c.Param("slug")

	var req dto.PostUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.postSvc.UpdatePost(c.Request.Context(), userID, slug, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	slug := c.Param("slug")

	if err := s.postSvc.DeletePost(c.Request.Context(), userID, slug); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) ClickPost(c *gin.Context) {
	slug := c.Param("slug")

	if err := s.postSvc.ClickPost(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) GetPostAnalytics(c *gin.Context) {
	slug := c.Param("slug")

	analytics, err := s.postSvc.GetPostAnalyticsBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, analytics)
}
