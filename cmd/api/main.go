package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/twaaos/examscheduler/internal/pkg/logger"
	"github.com/twaaos/examscheduler/internal/server"
)

// @title Exam Scheduler API
// @version 1.0
// @description Exam period planning for USV faculties: proposals, approvals, rooms and exports.

// @contact.name TWAAOS team
// @contact.email admin@usv.ro

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}
	logger.Info().Msg("Application finished gracefully.")
}
