// Package httpapi is the public HTTP surface of the document download API:
// authenticated uploads, two download endpoints, the scan-verdict check and
// a health check.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cds-snc/notification-document-download-api/internal/logging"
	"github.com/cds-snc/notification-document-download-api/internal/server/antivirus"
	"github.com/cds-snc/notification-document-download-api/internal/server/auth"
	"github.com/cds-snc/notification-document-download-api/internal/server/config"
	"github.com/cds-snc/notification-document-download-api/internal/server/scanqueue"
	"github.com/cds-snc/notification-document-download-api/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg         *config.Config
	logger      logging.Logger
	verifier    *auth.Verifier
	documents   *storage.DocumentStore
	scanTargets *storage.ScanTargetStore

	// scanner is nil when no antivirus API host is configured; uploads then
	// rely solely on the external bucket scanner.
	scanner *antivirus.Client
	queue   *scanqueue.Queue

	http *http.Server
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	documents *storage.DocumentStore,
	scanTargets *storage.ScanTargetStore,
	scanner *antivirus.Client,
	queue *scanqueue.Queue,
) *Server {
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		verifier:    auth.NewVerifier(cfg.AuthTokens, cfg.SecretKey),
		documents:   documents,
		scanTargets: scanTargets,
		scanner:     scanner,
		queue:       queue,
	}
	s.http = &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/_status", s.status)

	r.POST("/services/:serviceID/documents", s.requireAuth(), s.uploadDocument)
	r.GET("/services/:serviceID/documents/:documentID", s.downloadDocument)
	r.POST("/services/:serviceID/documents/:documentID/scan-verdict", s.checkScanVerdict)
	r.GET("/d/:serviceID/:documentID", s.downloadDocumentCompact)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully and drains
// the scan queue so in-flight verdicts still land on their objects.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.cfg.EndpointAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)
	if s.queue != nil {
		s.queue.Close()
	}
	s.logger.Info(shutdownCtx, "http server stopped")
	return err
}
