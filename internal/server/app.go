// Package server wires the gophauth server: storage, credential hashing,
// token issuing, and the HTTP and gRPC transports. It handles graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
	hs "github.com/dmitrijs2005/gophauth/internal/server/http"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *hs.HTTPServer
	grpc   *gs.GRPCServer
}

// NewApp opens storage, applies migrations and builds both transports.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	secret, err := auth.NewSigningSecret(c.SecretKey)
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewHasher(c.BcryptCost, c.HashWorkers)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewIssuer(secret)
	if err != nil {
		return nil, err
	}
	guard, err := auth.NewGuard(secret, logger)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	us := services.NewUserService(db, rm, hasher, issuer, logger)

	gin.SetMode(gin.ReleaseMode)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http:   hs.NewHTTPServer(c.EndpointAddrHTTP, logger, us, guard, c.CORSOrigins, c.ShutdownTimeout),
		grpc:   gs.NewGRPCServer(c.EndpointAddrGRPC, logger, guard),
	}, nil
}

// Run serves both transports until ctx is cancelled, a termination signal
// arrives or one of them fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Run(ctx) })
	g.Go(func() error { return app.grpc.Run(ctx) })

	err := g.Wait()

	if cerr := app.db.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}
