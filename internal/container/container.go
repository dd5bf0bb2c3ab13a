package container

import (
	"log/slog"

	"github.com/joshua-takyi/events/internal/helpers"
	"github.com/joshua-takyi/events/internal/middleware"
	"github.com/joshua-takyi/events/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	TokenValidator *helpers.TokenValidator
	// TokenRefresher is nil unless a Supabase client is configured
	TokenRefresher middleware.TokenRefresher
	AllowedOrigins []string
	EventService   *services.EventService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	tokenValidator *helpers.TokenValidator,
	tokenRefresher middleware.TokenRefresher,
	allowedOrigins []string,
	eventService *services.EventService,
) *Container {
	return &Container{
		Logger:         logger,
		TokenValidator: tokenValidator,
		TokenRefresher: tokenRefresher,
		AllowedOrigins: allowedOrigins,
		EventService:   eventService,
	}
}
