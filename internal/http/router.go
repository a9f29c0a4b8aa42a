package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
)

// RouterConfig carries all router dependencies, improving testability
// and keeping the constructor signature stable.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	LoginThrottle  *auth.LoginThrottle
	BookStore      BookStore
	TemplatesPath  string
	StaticPath     string
	CSRFSecret     []byte
	SecureCookies  bool
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is layered
	// on top of the request CSRF rewrites
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session load/commit, then per-request session resolution
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSession())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Landing page is the signup form
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, auth.SignupPath)
	})

	authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.LoginThrottle, cfg.TemplatesPath)
	authController.RegisterRoutes(router)

	booksController := NewBooksController(cfg.BookStore, cfg.TemplatesPath)

	// Form pages; the edit form is prefilled by id and stays reachable
	// without a session, mutation does not
	router.GET("/adding", booksController.AddingPage)
	router.GET("/edit/:id", booksController.EditPage)

	// Book operations require a resolved session
	protected := router.Group("/", auth.RequireAuth())
	protected.GET("Home", booksController.Home)
	protected.POST("add", booksController.Add)
	protected.POST("edit/:id", booksController.Edit)
	protected.POST("delete/:id", booksController.Delete)

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	return router
}
