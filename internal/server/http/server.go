// Package http is the REST transport of the server: gin routes for
// registration, login and the guarded user listing.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the part of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, userName, email, password string) (*models.PublicUser, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

type HTTPServer struct {
	address         string
	users           UserService
	guard           *auth.Guard
	logger          logging.Logger
	corsOrigins     []string
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewHTTPServer(a string, l logging.Logger, us UserService, g *auth.Guard, corsOrigins []string, shutdownTimeout time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:         a,
		users:           us,
		guard:           g,
		logger:          l.With("module", "http_server"),
		corsOrigins:     corsOrigins,
		shutdownTimeout: shutdownTimeout,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog(), s.cors())

	r.GET("/", s.hello)

	a := r.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.GET("/me", s.authRequired(), s.me)

	r.GET("/users", s.authRequired(), s.listUsers)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
