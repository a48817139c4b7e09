package api

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mediagrab-go/api/handlers"
	"github.com/yourusername/mediagrab-go/api/middleware"
	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/pkg/logger"
	"github.com/yourusername/mediagrab-go/web"
)

const (
	globalLimitMessage   = "Too many requests from this IP, please try again later."
	downloadLimitMessage = "Too many download requests. Please wait before downloading again."
)

// SetupRouter sets up the HTTP router. downloadMgr is only used in download
// mode and may be nil in static mode.
func SetupRouter(
	config *domain.Config,
	downloadMgr *app.DownloadManager,
	ml *logger.MultiLogger,
	version string,
) *gin.Engine {
	production := config.Server.IsProduction()
	mode := config.Server.Mode
	if downloadMgr == nil {
		mode = domain.ModeStatic
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Recovery(ml, production))
	router.Use(middleware.Logger(ml))
	router.Use(middleware.SecureHeaders())
	router.Use(middleware.CORS())
	if config.RateLimit.Enabled {
		global := middleware.NewRateLimiter(config.RateLimit.GlobalRequests, config.RateLimit.GlobalWindow, globalLimitMessage)
		router.Use(global.Middleware())
	}
	router.Use(middleware.BodyLimit(config.Server.MaxBodySize))

	// Health endpoint
	healthHandler := handlers.NewHealthHandler(version, mode)
	router.GET("/health", healthHandler.Health)

	apiGroup := router.Group("/api")
	{
		downloadHandler := handlers.NewDownloadHandler(mode, downloadMgr, production, ml.General())

		downloadRoute := []gin.HandlerFunc{downloadHandler.Download}
		if config.RateLimit.Enabled {
			limiter := middleware.NewRateLimiter(config.RateLimit.DownloadRequest, config.RateLimit.DownloadWindow, downloadLimitMessage)
			downloadRoute = append([]gin.HandlerFunc{limiter.Middleware()}, downloadRoute...)
		}
		apiGroup.POST("/download", downloadRoute...)

		if mode == domain.ModeDownload {
			apiGroup.GET("/downloads", downloadHandler.ListFiles)

			historyHandler := handlers.NewHistoryHandler(downloadMgr, ml.General())
			history := apiGroup.Group("/history")
			{
				history.GET("", historyHandler.List)
				history.GET("/stats", historyHandler.Stats)
			}
		}

		// Log endpoints
		logHandler := handlers.NewLogHandler(ml.LogsDir())
		logs := apiGroup.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)
			logs.GET("/:category/export", logHandler.ExportLogs)
		}
	}

	// Embedded front-end
	staticFS := web.GetStaticFS()
	router.GET("/", func(c *gin.Context) {
		serveFile(c, staticFS, "index.html")
	})
	router.GET("/static/*filepath", func(c *gin.Context) {
		serveFile(c, staticFS, strings.TrimPrefix(c.Param("filepath"), "/"))
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

// serveFile serves a file from the embedded filesystem with proper content type
func serveFile(c *gin.Context, staticFS fs.FS, filePath string) {
	content, err := fs.ReadFile(staticFS, filePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(filePath, ".html"):
		contentType = "text/html; charset=utf-8"
	case strings.HasSuffix(filePath, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(filePath, ".js"):
		contentType = "application/javascript; charset=utf-8"
	case strings.HasSuffix(filePath, ".json"):
		contentType = "application/json; charset=utf-8"
	case strings.HasSuffix(filePath, ".svg"):
		contentType = "image/svg+xml"
	case strings.HasSuffix(filePath, ".png"):
		contentType = "image/png"
	}

	c.Data(http.StatusOK, contentType, content)
}
