// Package httpapi is the request dispatcher: one endpoint mapping action
// names to booking and catalog operations and wrapping every result in the
// `{status, ...}` JSON envelope the booking site already speaks.
package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quedee/internal/domain"
	"quedee/internal/service/bookings"
	"quedee/internal/service/catalog"
)

type bookingService interface {
	Create(ctx context.Context, in bookings.CreateInput) (string, error)
	FindByToken(ctx context.Context, token string) (domain.Booking, error)
	CancelByToken(ctx context.Context, token string) error
	CancelByAdmin(ctx context.Context, email, date, timeSlot string) error
}

type catalogService interface {
	List(ctx context.Context) ([]domain.Service, error)
	Add(ctx context.Context, in catalog.AddInput) error
	Update(ctx context.Context, in catalog.UpdateInput) error
	Remove(ctx context.Context, id string) error
}

type Server struct {
	bookings bookingService
	catalog  catalogService

	// adminPassword gates the admin-side write actions. Empty disables the
	// gate and leaves the endpoint open.
	adminPassword string
	log           *slog.Logger
}

func NewServer(b bookingService, c catalogService, adminPassword string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		bookings:      b,
		catalog:       c,
		adminPassword: adminPassword,
		log:           log.With(slog.String("component", "httpapi")),
	}
}

// Router builds the gin engine. The public form is served from a different
// origin, so CORS is part of the contract.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.log))

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/", s.handleRead)
	r.POST("/", s.handleWrite)
	return r
}
