package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionSvc service.InteractionService
}

func NewInteractionHandler(interactionSvc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionSvc: interactionSvc,
	}
}

func (s *InteractionHandler) LikePost(c *gin.Context) {
	slug := c.Param("slug")

	if err := s.interactionSvc.LikePost(c.Request.Context(), slug, viewerIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) UnlikePost(c *gin.Context) {
	slug := c.Param("slug")

	if err := s.interactionSvc.UnlikePost(c.Request.Context(), slug, viewerIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) SharePost(c *gin.Context) {
	slug := c.Param("slug")

	// 请求体可省略，平台缺省为 other
	var req dto.ShareCreateDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err)
			return
		}
	}

	if err := s.interactionSvc.SharePost(c.Request.Context(), slug, &req, viewerIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) CreateComment(c *gin.Context) {
	slug := c.Param("slug")

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.interactionSvc.CreateComment(c.Request.Context(), slug, &req, viewerIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentIDStr := c.Param("comment_id")

	commentID, err := strconv.ParseUint(commentIDStr, 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.interactionSvc.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
