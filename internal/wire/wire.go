package wire

import (
	"Quill/internal/api"
	"Quill/internal/api/config"
	"Quill/internal/api/handler"
	"Quill/internal/job"
	"Quill/internal/pkg/cache"
	"Quill/internal/pkg/counter"
	"Quill/internal/pkg/cron"
	"Quill/internal/pkg/kafka"
	"Quill/internal/repository"
	"Quill/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	AnalyticsSvc service.AnalyticsService
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)
	viewRepo := repository.NewViewRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	actionRepo := repository.NewPostActionRepo(db)

	buffer := counter.NewBuffer()
	cacheTTL := time.Duration(cfg.Cache.TTL) * time.Second
	store := cache.NewStore(cacheTTL)

	analyticsService := service.NewAnalyticsService(buffer, analyticsRepo)
	interactionService := service.NewInteractionService(
		viewRepo, interactionRepo, actionRepo, postRepo, analyticsService, buffer, cfg.Analytics)
	postService := service.NewPostService(
		postRepo, categoryRepo, analyticsService, interactionService, buffer, store, cacheTTL)
	categoryService := service.NewCategoryService(
		categoryRepo, analyticsService, interactionService, buffer, store, cacheTTL)

	handlers := &api.HandlersGroup{
		PostHandler:        handler.NewPostHandler(postService),
		CategoryHandler:    handler.NewCategoryHandler(categoryService),
		InteractionHandler: handler.NewInteractionHandler(interactionService),
	}

	router := api.SetupRouter(handlers)

	flushJob := job.NewAnalyticsFlushJob(analyticsService)
	cronMgr := cron.NewCronManager(flushJob, cfg.Analytics.FlushInterval)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, interactionService, buffer)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		AnalyticsSvc: analyticsService,
	}, nil
}
