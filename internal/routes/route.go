package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/events/internal/container"
	"github.com/joshua-takyi/events/internal/handlers"
	"github.com/joshua-takyi/events/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	origins := container.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "events-api",
			})
		})

		// public routes
		v1.GET("/events/:eventId", handlers.GetEvent(container.EventService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.TokenValidator, container.TokenRefresher, container.Logger))

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", handlers.ListUserEvents(container.EventService))
		eventRoutes.POST("", handlers.CreateEvent(container.EventService))
		eventRoutes.PUT("/:eventId", handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:eventId", handlers.DeleteEvent(container.EventService))
	}

	return r
}
