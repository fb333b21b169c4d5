package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/twaaos/examscheduler/internal/bootstrap"
	"github.com/twaaos/examscheduler/internal/config"
	"github.com/twaaos/examscheduler/internal/db"
)

const shutdownTimeout = 10 * time.Second

// Server is the exam scheduling API process
type Server struct {
	config *config.Config
	router *gin.Engine
	db     *db.PostgresDB
	logger zerolog.Logger
}

// NewServer loads configuration, migrates and seeds the database and wires every handler.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Server{
		config: cfg,
		router: bootstrap.SetupRouter(cfg, deps, lgr),
		db:     database,
		logger: lgr,
	}, nil
}

// Run serves the API until ctx is cancelled, then drains requests and closes the pool.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        ":" + s.config.Server.Port,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// A sync run waits for the collector, which can take minutes
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return Serve(ctx, srv, s.logger, func() {
		s.logger.Info().Msg("Closing database connection pool...")
		s.db.Close()
	})
}

// Serve runs srv until it fails or ctx is done. On cancellation it shuts srv down within
// ten seconds and then calls every cleanup function in order.
func Serve(ctx context.Context, srv *http.Server, lgr zerolog.Logger, cleanup ...func()) error {
	serverErrors := make(chan error, 1)
	go func() {
		lgr.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		lgr.Info().Msg("Shutdown requested, draining HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lgr.Error().Err(err).Msg("HTTP server shutdown error")
			runErr = errors.New("server shutdown completed with errors")
		} else {
			lgr.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	for _, fn := range cleanup {
		fn()
	}
	return runErr
}
