package api

import (
	"Quill/internal/api/middleware"
	"Quill/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		postGroup.Use(middleware.AuthOptionalMiddleware())
		{
			// 匿名可访问，身份仅用于独立阅读去重
			postGroup.GET("", group.PostHandler.ListPosts)
			postGroup.GET("/:slug", group.PostHandler.GetPost)
			postGroup.POST("/:slug/click", group.PostHandler.ClickPost)
			postGroup.POST("/:slug/share", group.InteractionHandler.SharePost)

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:slug", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:slug", group.PostHandler.DeletePost)
				authGroup.POST("/:slug/like", group.InteractionHandler.LikePost)
				authGroup.DELETE("/:slug/like", group.InteractionHandler.UnlikePost)
				authGroup.POST("/:slug/comments", group.InteractionHandler.CreateComment)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles("ADMIN"))
			{
				adminGroup.GET("/:slug/analytics", group.PostHandler.GetPostAnalytics)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(middleware.AuthMiddleware())
		{
			commentGroup.DELETE("/:comment_id", group.InteractionHandler.DeleteComment)
		}

		categoryGroup := apiGroup.Group("/categories")
		categoryGroup.Use(middleware.AuthOptionalMiddleware())
		{
			categoryGroup.GET("", group.CategoryHandler.ListCategories)
			categoryGroup.GET("/:slug", group.CategoryHandler.GetCategory)
			categoryGroup.POST("/:slug/click", group.CategoryHandler.ClickCategory)

			adminGroup := categoryGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles("ADMIN"))
			{
				adminGroup.POST("", group.CategoryHandler.CreateCategory)
				adminGroup.DELETE("/:slug", group.CategoryHandler.DeleteCategory)
				adminGroup.GET("/:slug/analytics", group.CategoryHandler.GetCategoryAnalytics)
			}
		}
	}

	return r
}
