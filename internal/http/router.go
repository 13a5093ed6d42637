package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shuttle-service/internal/http/middleware"
	"shuttle-service/internal/model"
)

// NewRouter wires the public and authenticated routes. metrics may be nil.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, metrics http.Handler, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", handler.readyz)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		schedule := protected.Group("")
		schedule.Use(middleware.RequireRole(model.UserRoleAdmin, model.UserRoleAgent))
		schedule.GET("/schedule", handler.getSchedule)
		schedule.GET("/schedule/export", handler.exportSchedule)
		schedule.GET("/trips/:id/lifecycle", handler.getTripLifecycle)

		clearance := protected.Group("/clearance")
		clearance.Use(middleware.RequireRole(model.UserRoleAdmin))
		clearance.GET("", handler.getClearance)
		clearance.GET("/:worksite_id", handler.getWorksiteClearance)
	}

	return router
}
