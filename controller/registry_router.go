package controller

import (
	"net/http"

	"mini-app-gateway/conf"
	"mini-app-gateway/controller/handler"
	"mini-app-gateway/controller/respond"
	"mini-app-gateway/docs"
	"mini-app-gateway/metrics"
	"mini-app-gateway/service/registry_service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRegistryRouter setup registry service router
func SetupRegistryRouter(registryService *registry_service.RegistryService) *gin.Engine {
	// Set Swagger host from config
	if conf.Cfg != nil && conf.Cfg.Feed.Port != "" {
		docs.SwaggerInforegistry.Host = "localhost:" + conf.Cfg.Feed.Port
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	r.Use(respond.TimingMiddleware())
	r.Use(metrics.GinMiddleware())

	appHandler := handler.NewAppHandler(registryService)

	v1 := r.Group("/api/v1")
	{
		apps := v1.Group("/apps")
		{
			// Get app list (cursor pagination)
			apps.GET("", appHandler.ListApps)

			// Get apps by category (must be before /:appId to avoid route conflict)
			apps.GET("/category/:category", appHandler.ListAppsByCategory)

			apps.GET("/:appId", appHandler.GetApp)
			apps.PUT("/:appId", appHandler.UpsertApp)
		}

		// Statistics route
		v1.GET("/stats", appHandler.GetStats)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "registry",
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName("registry")))

	return r
}
