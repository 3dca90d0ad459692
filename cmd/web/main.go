package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/page-atlas/pkg/events"
	"github.com/de-tools/page-atlas/pkg/queue"
	"github.com/de-tools/page-atlas/pkg/server"
	"github.com/de-tools/page-atlas/pkg/services/bulk"
	"github.com/de-tools/page-atlas/pkg/services/config"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
	"github.com/de-tools/page-atlas/pkg/services/notify"
	"github.com/de-tools/page-atlas/pkg/store/sqlite"
	reportstore "github.com/de-tools/page-atlas/pkg/store/sqlite/report"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Page Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "page-atlas.yaml",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{
		DbPath: cfg.DB.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	reports, err := reportstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	bus := events.NewBus()
	inspector := inspect.NewInspector(inspect.NewHTTPFetcher(), reports, bus)

	jobQueue := queue.New(queue.Config{
		Workers:    cfg.Queue.Workers,
		BufferSize: cfg.Queue.BufferSize,
		RetryDelay: cfg.Queue.RetryDelay,
	})
	jobQueue.Start(ctx)
	defer jobQueue.Stop()

	orchestrator := bulk.NewOrchestrator(inspector, reports, jobQueue, bus)
	registry := bulk.NewRegistry()

	minLevel, err := cfg.Notification.MinLevelOrNil()
	if err != nil {
		return fmt.Errorf("invalid notification config: %w", err)
	}
	if cfg.Notification.SlackWebhook != "" {
		notifier := notify.NewSlackNotifier(cfg.Notification.SlackWebhook, cfg.Notification.SlackChannel)
		bus.Subscribe(notify.NewGate(minLevel, notifier).Handle)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Reports:      reports,
			Inspector:    inspector,
			Orchestrator: orchestrator,
			Registry:     registry,
			FetchOptions: cfg.Fetch.HTTPOptions(),
		},
	})

	return api.Start()
}
