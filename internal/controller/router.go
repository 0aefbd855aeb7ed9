package controller

import (
	"time"

	"freelance-marketplace-api/internal/notify"
	"freelance-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type RouterOptions struct {
	JWTSecret    string
	SSEHeartbeat time.Duration
	SSEBuffer    int
	// Done closes open event streams when closed.
	Done <-chan struct{}
}

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, registry notify.Registry, opts RouterOptions) {
	if opts.SSEHeartbeat <= 0 {
		opts.SSEHeartbeat = 25 * time.Second
	}
	if opts.SSEBuffer <= 0 {
		opts.SSEBuffer = 16
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	auth := authenticate([]byte(opts.JWTSecret))

	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newGigRoutesHandler(api, auth, services, validate)
	newBidRoutesHandler(api, auth, services, validate)
	newNotificationRoutesHandler(api, auth, registry, opts)
}
