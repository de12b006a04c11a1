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

	"github.com/vinotinto/certificados/internal/api"
	"github.com/vinotinto/certificados/internal/config"
	"github.com/vinotinto/certificados/internal/contact"
	"github.com/vinotinto/certificados/internal/core"
	"github.com/vinotinto/certificados/internal/crm"
	"github.com/vinotinto/certificados/internal/db"
	"github.com/vinotinto/certificados/internal/logging"
	"github.com/vinotinto/certificados/internal/pdf"
	"github.com/vinotinto/certificados/internal/storage"
	"github.com/vinotinto/certificados/internal/template"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "create-api-key" {
		createAPIKey(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
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

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	var crmClient *crm.Client
	var slugs *crm.SlugCache
	if cfg.CRMConfigured() {
		crmClient = crm.NewClient(cfg.CRMBaseURL, cfg.CRMUsername, cfg.CRMPassword)
		slugs = crm.NewSlugCache(crmClient.CustomFieldSlugs, logger)
	} else {
		logger.Warn().Msg("CRM credentials not set, contact lookups disabled")
	}
	// Avoid handing typed nil pointers to the interface fields.
	var crmAPI contact.CRM
	if crmClient != nil {
		crmAPI = crmClient
	}
	var slugSource contact.SlugSource
	if slugs != nil {
		slugSource = slugs
	}
	contacts := contact.NewService(crmAPI, slugSource, logger)

	profile, err := template.LoadIssuerProfile(cfg.IssuerProfilePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load issuer profile")
	}
	renderer, err := template.NewRenderer(profile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build certificate renderer")
	}

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up certificate storage")
	}

	chrome := pdf.NewChromeRenderer(cfg.ChromeBin, logger)
	defer chrome.Close()

	services := core.NewServices(pool, contacts.FindByCedula, renderer, chrome, store, logger)

	srv := api.NewServer(logger, pool, cfg, services, contacts, slugs)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting certificate server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3Store(cfg.S3Endpoint, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, cfg.StorageBaseURL), nil
	}
	return storage.NewLocalStore(cfg.StorageDir, cfg.StorageBaseURL)
}

func createAPIKey(args []string) {
	fs := flag.NewFlagSet("create-api-key", flag.ExitOnError)
	name := fs.String("name", "", "Name for the API key (required)")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "error: --name is required")
		fmt.Fprintln(os.Stderr, "usage: certserver create-api-key --name <name>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	key, rawKey, err := core.NewAPIKeyService(pool).Create(ctx, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create API key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created API key %q (id %s)\n", key.Name, key.ID)
	fmt.Printf("key: %s\n", rawKey)
	fmt.Println("store it now; the raw key is not shown again")
}
