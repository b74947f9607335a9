package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/api/handlers"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/api/middleware"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/config"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/proxy"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
)

// Deps are the components the main router serves.
type Deps struct {
	Config    *config.Config
	Session   *session.Store
	Dashboard *admin.Dashboard
	Uploads   services.IBulkUploadService
	Health    services.IHealthService
	Proxy     *proxy.Proxy
	Limiter   *middleware.RateLimiterMiddleware
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiterMiddleware(deps.Config)
	}

	assetHandler := handlers.NewAssetHandler(deps.Proxy)
	systemHandler := handlers.NewSystemHandler(deps.Health)
	sessionHandler := handlers.NewSessionHandler(deps.Session)
	adminHandler := handlers.NewAdminHandler(deps.Dashboard, deps.Config.ItemsPerPage)
	uploadHandler := handlers.NewUploadHandler(deps.Uploads)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/api")
	public.Use(limiter.Limit())
	{
		public.GET("/health", systemHandler.Health)
		public.POST("/log", systemHandler.Log)

		public.GET("/image-proxy", assetHandler.ImageProxy)
		public.OPTIONS("/image-proxy", assetHandler.ImageProxyOptions)
		public.GET("/github-image", assetHandler.GitHubImage)
		public.GET("/file-preview", assetHandler.FilePreview)
	}

	sessionGroup := r.Group("/admin/session")
	sessionGroup.Use(limiter.Limit())
	{
		sessionGroup.GET("", sessionHandler.Me)
		sessionGroup.POST("/login", sessionHandler.Login)
		sessionGroup.POST("/logout", sessionHandler.Logout)
	}

	adminRequired := r.Group("/admin")
	adminRequired.Use(middleware.AuthMiddleware(deps.Session), middleware.AdminMiddleware())
	{
		adminRequired.GET("/stats", adminHandler.Stats)
		adminRequired.GET("/backend-health", systemHandler.BackendHealth)
		adminRequired.POST("/bulk-upload", uploadHandler.BulkUpload)

		adminRequired.GET("/:resource", adminHandler.List)
		adminRequired.PUT("/:resource/:id", adminHandler.Update)
		adminRequired.POST("/:resource/:id/approve", adminHandler.Approve)
		adminRequired.POST("/:resource/:id/reject", adminHandler.Reject)
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine.
func SetupServiceRouter(shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			logging.Infof("received shutdown command via service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				logging.Warnf("shutdown channel already signaled")
			}
		case "ping":
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "pong"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
