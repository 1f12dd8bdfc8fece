package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/siteprovision/internal/api"
	"github.com/edvin/siteprovision/internal/artifact"
	"github.com/edvin/siteprovision/internal/config"
	"github.com/edvin/siteprovision/internal/db"
	"github.com/edvin/siteprovision/internal/journal"
	"github.com/edvin/siteprovision/internal/logging"
	"github.com/edvin/siteprovision/internal/mail"
	"github.com/edvin/siteprovision/internal/metrics"
	"github.com/edvin/siteprovision/internal/notify"
	"github.com/edvin/siteprovision/internal/provision"
	"github.com/edvin/siteprovision/internal/upload"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run journal database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var jrnl journal.Journal = journal.Nop{}
	if cfg.DatabaseURL != "" {
		if *migrateFlag {
			logger.Info().Str("dir", *migrateDirFlag).Msg("running journal migrations")
			if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
				logger.Fatal().Err(err).Msg("migration failed")
			}
		}

		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to journal database")
		}
		defer pool.Close()
		metrics.RegisterPgxPoolMetrics(pool)
		jrnl = journal.NewPostgres(pool, logger)
	}

	sender := mail.NewClient(cfg.MailBaseURL, cfg.MailAdminToken, cfg.MailFrom)
	dispatcher := notify.NewDispatcher(logger, sender, 256)
	go dispatcher.Run(ctx)

	var artifacts provision.TranscriptStore
	if cfg.ArtifactsEnabled() {
		artifacts = artifact.NewStore(logger, cfg.ArtifactEndpoint, cfg.ArtifactAccessKey, cfg.ArtifactSecretKey, cfg.ArtifactBucket)
		logger.Info().Str("bucket", cfg.ArtifactBucket).Msg("transcript archiving enabled")
	}

	runner := provision.NewScriptRunner(logger, cfg.ScriptsDir, cfg.ScriptsSudo)
	uploads := upload.NewStore(logger, cfg.UploadDir, cfg.MaxUploadBytes)
	svc := provision.NewService(logger, cfg, runner, dispatcher, uploads, jrnl, artifacts)

	srv := api.NewServer(logger, cfg, svc, uploads)

	httpServer := &http.Server{
		Addr:        cfg.HTTPListenAddr,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting provisioning API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// In-flight jobs are not awaited: their state is in the journal and
	// their scripts run in their own processes.
	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
