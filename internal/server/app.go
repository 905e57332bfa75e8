// Package server initializes and runs the document download API server.
// It wires the S3-backed stores, the optional inline scanner, and the HTTP
// endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cds-snc/notification-document-download-api/internal/logging"
	"github.com/cds-snc/notification-document-download-api/internal/server/antivirus"
	"github.com/cds-snc/notification-document-download-api/internal/server/config"
	"github.com/cds-snc/notification-document-download-api/internal/server/httpapi"
	"github.com/cds-snc/notification-document-download-api/internal/server/scanqueue"
	"github.com/cds-snc/notification-document-download-api/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	documents := storage.NewDocumentStore(storage.NewS3ObjectStore(s3Client, cfg.DocumentsBucket))
	scanTargets := storage.NewScanTargetStore(storage.NewS3ObjectStore(s3Client, cfg.ScanFilesBucket))

	var scanner *antivirus.Client
	var queue *scanqueue.Queue
	if cfg.AntivirusAPIHost != "" {
		scanner = antivirus.NewClient(cfg.AntivirusAPIHost, cfg.AntivirusAPIKey)
		queue = scanqueue.New(cfg.ScanWorkers, logger)
	}

	srv := httpapi.NewServer(cfg, logger, documents, scanTargets, scanner, queue)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
