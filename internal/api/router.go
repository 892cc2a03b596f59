// Package api wires together all HTTP routes for the radio backend.
//
// Route grouping:
//   - /api/auth/register/ and /api/auth/login/ are unauthenticated: they are
//     how a session comes to exist in the first place.
//   - /api/auth/me/ and /token require a Bearer session JWT.
//   - /logs additionally requires the administrative flag.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/freqradio/freqradio/internal/api/authapi"
	"github.com/freqradio/freqradio/internal/api/radioapi"
	"github.com/freqradio/freqradio/internal/config"
	"github.com/freqradio/freqradio/internal/db/repositories"
	"github.com/freqradio/freqradio/internal/livekit"
	"github.com/freqradio/freqradio/internal/middleware"
	"github.com/freqradio/freqradio/internal/radio"
)

// Version is the service version, overridable at build time with
// -ldflags "-X github.com/freqradio/freqradio/internal/api.Version=...".
var Version = "dev"

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	router := gin.New()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	joinLogRepo := repositories.NewJoinLogRepository(sqlx.NewDb(db, "postgres"))

	// Radio workflow: config provides the signing credentials at request
	// time, the livekit issuer signs grants, the repository records joins.
	radioSvc := radio.NewService(cfg, livekit.NewIssuer(), joinLogRepo)

	authHandlers := authapi.NewHandlers(userRepo)
	radioHandlers := radioapi.NewHandlers(radioSvc)

	// Global middleware. Recovery first so panics anywhere below still
	// produce a 500 instead of tearing down the connection.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))
	router.Use(CORSMiddleware(cfg))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Account endpoints
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register/", authHandlers.RegisterHandler())
		authGroup.POST("/login/", authHandlers.LoginHandler())

		authed := authGroup.Group("")
		authed.Use(middleware.AuthMiddleware(userRepo))
		authed.GET("/me/", authHandlers.MeHandler())
	}

	// Room token endpoint
	tokenGroup := router.Group("/token")
	tokenGroup.Use(middleware.AuthMiddleware(userRepo))
	tokenGroup.POST("", radioHandlers.TokenHandler())

	// Join-audit log, admin only
	logsGroup := router.Group("/logs")
	logsGroup.Use(middleware.AuthMiddleware(userRepo))
	logsGroup.Use(middleware.RequireAdmin())
	logsGroup.GET("", radioHandlers.LogsHandler())

	return router
}

// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// versionHandler returns the running service version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": Version,
		})
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
