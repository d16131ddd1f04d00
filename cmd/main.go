package main

import (
	"context"
	"fmt"
	logByDefault "log"
	"log/slog"
	"os"
	"time"

	config "github.com/plugfox/toxy-gram-server/internal/config"
	"github.com/plugfox/toxy-gram-server/internal/classifier"
	"github.com/plugfox/toxy-gram-server/internal/httpclient"
	log "github.com/plugfox/toxy-gram-server/internal/log"
	"github.com/plugfox/toxy-gram-server/internal/metrics"
	"github.com/plugfox/toxy-gram-server/internal/model"
	"github.com/plugfox/toxy-gram-server/internal/moderation"
	server "github.com/plugfox/toxy-gram-server/internal/server"
	storage "github.com/plugfox/toxy-gram-server/internal/storage"
	"github.com/plugfox/toxy-gram-server/internal/telegram"
	"github.com/plugfox/toxy-gram-server/internal/transcriber"

	// This controls the maxprocs environment variable in container runtimes.
	// see https://martin.baillie.id/wrote/gotchas-in-the-go-network-packages-defaults/#bonus-gomaxprocs-containers-and-the-cfs
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	// Set the local timezone to UTC
	time.Local = time.UTC

	// Initialize the configuration
	config, err := config.MustLoadConfig()
	if err != nil {
		logByDefault.Fatalf("Config load error: %v", err)
		os.Exit(1)
	}

	// Logger configuration
	logger := log.New(
		log.WithLevel(config.Verbose),
		log.WithSource(),
	)

	if err := run(config, logger); err != nil {
		logger.ErrorContext(context.Background(), "an error occurred", slog.String("error", err.Error()))
		os.Exit(1)
	}

	os.Exit(0)
}

func run(config *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	_, err := maxprocs.Set(maxprocs.Logger(func(s string, i ...interface{}) {
		logger.DebugContext(ctx, fmt.Sprintf(s, i...))
	}))
	if err != nil {
		return fmt.Errorf("setting max procs: %w", err)
	}

	// Setup hash function
	model.InitHashFunction()

	// Setup database connection
	db, err := storage.New(config, logger)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer db.Close()

	// Create a http client for outgoing calls
	httpClient, err := httpclient.NewHTTPClient(&config.Proxy)
	if err != nil {
		return fmt.Errorf("http client setup error: %w", err)
	}

	// Setup the toxicity classifier client
	cls, err := classifier.New(&config.Classifier, httpClient, logger)
	if err != nil {
		return fmt.Errorf("classifier setup error: %w", err)
	}
	defer cls.Close()

	// Setup the speech-to-text client
	trs := transcriber.New(&config.Transcriber, httpClient)

	// Setup InfluxDB metrics (if any)
	var mtr metrics.Metrics
	if config.Influx.URL != "" {
		mtr = metrics.NewMetricsImpl(
			config.Influx.URL,
			config.Influx.Token,
			config.Influx.Org,
			config.Influx.Bucket,
			map[string]string{"environment": config.Environment},
		)
	} else {
		mtr = metrics.NewMetricsFake()
	}
	defer mtr.Close()

	// Setup the moderation pipeline
	moderator := telegram.NewModerator(
		moderation.PolicyFromConfig(&config.Moderation),
		config.Moderation.FailOpen,
		db,
		cls,
		trs,
		mtr,
		logger,
	)

	// Setup Telegram bot
	bot, err := telegram.New(db, moderator, httpClient, config, logger)
	if err != nil {
		return fmt.Errorf("telegram bot setup error: %w", err)
	}

	if err := db.UpsertUser(bot.Me()); err != nil {
		return fmt.Errorf("upserting user error: %w", err)
	}

	// Setup API server
	srv := server.New(config, logger)
	srv.AddModerationAPI(db)
	srv.AddHealthCheck(func() (bool, map[string]string) {
		status := map[string]string{}

		ok := true
		if botStatus, err := bot.Status(); err != nil {
			status["telegram"] = err.Error()
			ok = false
		} else {
			status["telegram"] = botStatus
		}

		return ok, status
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.ErrorContext(ctx, "api server error", slog.String("error", err.Error()))
		}
	}()

	logger.InfoContext(ctx, "Server started", slog.String("host", config.API.Host), slog.Int("port", config.API.Port))

	bot.Start()

	return nil
}
