package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/twaaos/examscheduler/internal/app/migrations"
	"github.com/twaaos/examscheduler/internal/config"
	"github.com/twaaos/examscheduler/internal/db"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [-config path] up|down|status")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: true,
	})

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	migrator := migrations.NewMigrator(database.Pool, logger.WithField("component", "migrate"))
	defer migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command := flag.Arg(0); command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Migration command failed")
	}
	logger.Info().Str("command", flag.Arg(0)).Msg("Migration command finished")
}
