package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) ListCategories(c *gin.Context) {
	var query dto.CategoryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.categorySvc.GetCategoryList(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CategoryHandler) GetCategory(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := s.categorySvc.GetCategoryDetail(c.Request.Context(), slug, viewerIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	id, err := s.categorySvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	slug := c.Param("slug")

	if err := s.categorySvc.DeleteCategory(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CategoryHandler) ClickCategory(c *gin.Context) {
	slug := c.Param("slug")

	if err := s.categorySvc.ClickCategory(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CategoryHandler) GetCategoryAnalytics(c *gin.Context) {
	slug := c.Param("slug")

	analytics, err := s.categorySvc.GetCategoryAnalyticsBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, analytics)
}
