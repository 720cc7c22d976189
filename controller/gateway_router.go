package controller

import (
	"fmt"
	"net/http"
	"time"

	"mini-app-gateway/conf"
	"mini-app-gateway/controller/handler"
	"mini-app-gateway/controller/middleware"
	"mini-app-gateway/controller/respond"
	"mini-app-gateway/docs"
	"mini-app-gateway/metrics"
	"mini-app-gateway/registry"
	"mini-app-gateway/service/classifier_service"
	"mini-app-gateway/service/deeplink_service"
	"mini-app-gateway/service/preview_service"
	"mini-app-gateway/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupGatewayRouter setup share page / deep link gateway router
func SetupGatewayRouter(gw registry.Gateway) (*gin.Engine, error) {
	cfg := conf.Cfg

	// Set Swagger host from config
	if cfg.Server.SwaggerBaseUrl != "" {
		docs.SwaggerInfo.Host = cfg.Server.SwaggerBaseUrl
	}

	// Create services
	classifier := classifier_service.NewClassifierService(cfg.Crawler.ExtraAgents)
	preview := preview_service.NewPreviewService(preview_service.Options{
		BaseURL:             cfg.Server.BaseUrl,
		ProductLine:         cfg.Share.ProductLine,
		NotFoundTitle:       cfg.Share.NotFoundTitle,
		NotFoundDescription: cfg.Share.NotFoundDescription,
	})
	cards, err := preview_service.NewCardRenderer(cfg.Share.ProductLine)
	if err != nil {
		return nil, fmt.Errorf("failed to create card renderer: %w", err)
	}
	deeplink := deeplink_service.NewDeepLinkService(gw, deeplink_service.Options{
		Scheme:            cfg.DeepLink.Scheme,
		HostDomain:        cfg.DeepLink.HostDomain,
		VisibilityTimeout: time.Duration(cfg.DeepLink.VisibilityTimeoutMs) * time.Millisecond,
		IOSStoreURL:       cfg.DeepLink.IosStoreUrl,
		AndroidStoreURL:   cfg.DeepLink.AndroidStoreUrl,
	}, nil)
	indexing := middleware.DefaultIndexingPolicy()

	// Create Gin engine
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	r.Use(respond.TimingMiddleware())
	r.Use(metrics.GinMiddleware())
	r.Use(indexing.Middleware())
	r.Use(middleware.RequestCache(gw))
	r.SetHTMLTemplate(web.Templates())

	// Create handlers
	shareHandler := handler.NewShareHandler(gw, classifier, preview, cards, deeplink)
	deepLinkHandler := handler.NewDeepLinkHandler(deeplink)
	wellKnownHandler := handler.NewWellKnownHandler(handler.WellKnownOptions{
		IOSAppIDs:               cfg.DeepLink.IosAppIds,
		AndroidPackage:          cfg.DeepLink.AndroidPackage,
		AndroidCertFingerprints: cfg.DeepLink.AndroidCertFingerprints,
	})

	// Canonical share page and universal link landing
	r.GET("/app/:appId", shareHandler.SharePage)
	r.GET("/open/:appId", shareHandler.OpenLanding)

	// Preview card images are rendered per request, so they are rate limited
	limiter := middleware.NewRateLimiter(float64(cfg.RateLimit.PreviewRps), cfg.RateLimit.PreviewBurst)
	limiter.StartCleanup(10 * time.Minute)
	og := r.Group("/api/og/share", limiter.Handler())
	{
		og.GET("/:appId", shareHandler.ShareImage)
		og.GET("/:appId/*variant", shareHandler.ShareImage)
	}

	// API v1 route group
	v1 := r.Group("/api/v1")
	{
		v1.GET("/deeplink/:appId", deepLinkHandler.GetPlan)
	}

	// Association files for universal links / app links
	r.GET("/.well-known/apple-app-site-association", wellKnownHandler.AppleAppSiteAssociation)
	r.GET("/.well-known/assetlinks.json", wellKnownHandler.AssetLinks)

	robots := indexing.RobotsTxt()
	r.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, robots)
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "gateway",
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName("swagger")))

	return r, nil
}
