package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/flexprice/connectcheckout/internal/api/v1"
	"github.com/flexprice/connectcheckout/internal/config"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Config    *v1.ConfigHandler
	Checkout  *v1.CheckoutHandler
	Dashboard *v1.DashboardHandler
	Webhook   *v1.WebhookHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.PyroscopeMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/config", handlers.Config.GetConfig)
	router.POST("/create-checkout-session", handlers.Checkout.CreateCheckoutSession)
	router.GET("/express-dashboard-link", handlers.Dashboard.GetDashboardLink)
	router.POST("/webhook", handlers.Webhook.HandleWebhook)

	router.NoRoute(staticHandler(cfg.Server.StaticDir, logger))

	return router
}

// staticHandler serves the storefront pages from dir. Without a directory
// every unknown path is a plain 404.
func staticHandler(dir string, logger *logger.Logger) gin.HandlerFunc {
	if dir == "" {
		return func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
		}
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warnw("static directory is not readable, serving API routes only", "static_dir", dir, "error", err)
	}

	fileServer := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
			return
		}

		// dotfiles such as .env stay private
		clean := filepath.ToSlash(filepath.Clean("/" + c.Request.URL.Path))
		if strings.Contains(clean, "/.") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
			return
		}

		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
