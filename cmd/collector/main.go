package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/twaaos/examscheduler/internal/collector"
	"github.com/twaaos/examscheduler/internal/config"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
	"github.com/twaaos/examscheduler/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format, "collector"))
	lgr := logger.Get()

	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	source := collector.NewSource(collector.SourceConfig{
		FacultiesURL: cfg.Collector.FacultiesURL,
		GroupsURL:    cfg.Collector.GroupsURL,
		RoomsURL:     cfg.Collector.RoomsURL,
		StaffURL:     cfg.Collector.StaffURL,
		TimetableURL: cfg.Collector.TimetableURL,
		Retries:      2,
	})
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: 5 * time.Minute,
		TokenIssuer:    cfg.JWT.Issuer,
	})
	store := collector.NewAPIStore(cfg.Collector.APIBaseURL, 15*time.Second, collector.ServiceToken(jwtService))
	c := collector.New(source, store, collector.Options{
		FacultyShortName: cfg.Collector.FacultyShortName,
		TargetFaculty:    cfg.Collector.TargetFaculty,
		Delay:            helpers.ParseDuration(cfg.Collector.RequestDelay, 100*time.Millisecond),
	}, lgr)

	srv := &http.Server{
		Addr:        ":" + cfg.Collector.Port,
		Handler:     collector.NewRouter(c, lgr),
		ReadTimeout: 10 * time.Second,
		// A run stores every record one by one
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lgr.Info().Str("api", cfg.Collector.APIBaseURL).Msg("Starting collector")
	if err := server.Serve(ctx, srv, lgr); err != nil {
		lgr.Error().Err(err).Msg("Collector stopped with errors")
		os.Exit(1)
	}
	lgr.Info().Msg("Collector stopped")
}
