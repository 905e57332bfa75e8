package httpapi

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/b64x"
	"github.com/cds-snc/notification-document-download-api/internal/common"
	"github.com/cds-snc/notification-document-download-api/internal/server/scan"
)

// downloadDocument serves GET /services/:serviceID/documents/:documentID,
// the long-form endpoint with dashed UUIDs and verbose error responses.
func (s *Server) downloadDocument(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("serviceID"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	documentID, err := uuid.Parse(c.Param("documentID"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	rawKey, ok := c.GetQuery("key")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing decryption key"})
		return
	}
	key, err := b64x.Base64ToBytes(rawKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decryption key"})
		return
	}

	filename := c.Query("filename")
	sendingMethod := c.DefaultQuery("sending_method", common.SendingMethodLink)

	decision, verdictErr := s.decideAccess(c, serviceID, documentID, sendingMethod)
	if !decision.Granted() {
		switch decision {
		case scan.DenyMalicious:
			c.JSON(maliciousContentErrorCode, gin.H{"error": verdictErr.Error()})
		case scan.DenyInProgress:
			c.JSON(scanInProgressErrorCode, gin.H{"error": verdictErr.Error()})
		default:
			c.AbortWithStatus(http.StatusNotFound)
		}
		return
	}

	document, err := s.documents.Get(c.Request.Context(), serviceID, documentID, key, sendingMethod)
	if err != nil {
		s.logger.Info(c.Request.Context(), "failed to download document",
			"service_id", serviceID, "document_id", documentID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	serveDocumentBody(c, document.Body, document.ContentType, document.Size, filename)
}

// downloadDocumentCompact serves GET /d/:serviceID/:documentID with
// 22-character base64 UUIDs. Every denial and error collapses to a bare 404
// so the endpoint leaks nothing about why a document is unavailable.
func (s *Server) downloadDocumentCompact(c *gin.Context) {
	serviceID, err := b64x.Base64ToUUID(c.Param("serviceID"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	documentID, err := b64x.Base64ToUUID(c.Param("documentID"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	rawKey, ok := c.GetQuery("key")
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	key, err := b64x.Base64ToBytes(rawKey)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	filename := c.Query("filename")
	sendingMethod := c.DefaultQuery("sending_method", common.SendingMethodLink)

	decision, _ := s.decideAccess(c, serviceID, documentID, sendingMethod)
	if !decision.Granted() {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	document, err := s.documents.Get(c.Request.Context(), serviceID, documentID, key, sendingMethod)
	if err != nil {
		s.logger.Info(c.Request.Context(), "failed to download document",
			"service_id", serviceID, "document_id", documentID, "error", err)
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	serveDocumentBody(c, document.Body, document.ContentType, document.Size, filename)
}

const (
	maliciousContentErrorCode = http.StatusLocked
	scanInProgressErrorCode   = http.StatusPreconditionRequired
	scanTimeoutErrorCode      = http.StatusRequestTimeout
	scanFailedErrorCode       = http.StatusUnprocessableEntity
)

// checkScanVerdict serves POST .../scan-verdict, reporting the current
// reconciled verdict without releasing any content.
func (s *Server) checkScanVerdict(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("serviceID"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	documentID, err := uuid.Parse(c.Param("documentID"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	sendingMethod := c.PostForm("sending_method")

	verdict, verdictErr := s.scanTargets.CheckScanVerdict(c.Request.Context(), serviceID, documentID, sendingMethod)
	age := s.scanTargets.AgeFunc(c.Request.Context(), serviceID, documentID, sendingMethod)

	switch scan.Decide(verdictErr, age, s.cfg.ScanTimeout) {
	case scan.Grant:
		c.JSON(http.StatusOK, gin.H{"scan_verdict": verdict})
	case scan.DenyMalicious:
		s.logger.Info(c.Request.Context(), "malicious content detected, refused to release document",
			"service_id", serviceID, "document_id", documentID)
		c.JSON(maliciousContentErrorCode, gin.H{"error": verdictErr.Error()})
	case scan.GrantTimedOut:
		s.logger.Info(c.Request.Context(), "scan timed out",
			"service_id", serviceID, "document_id", documentID)
		c.JSON(scanTimeoutErrorCode, gin.H{"scan_verdict": scan.VerdictScanTimedOut})
	case scan.DenyInProgress:
		s.logger.Info(c.Request.Context(), "scan in progress, refused to release document",
			"service_id", serviceID, "document_id", documentID)
		c.JSON(scanInProgressErrorCode, gin.H{"error": verdictErr.Error()})
	case scan.GrantUnsupported:
		s.logger.Warn(c.Request.Context(), "scan unsupported for document",
			"service_id", serviceID, "document_id", documentID)
		c.JSON(scanFailedErrorCode, gin.H{"scan_verdict": scan.VerdictScanUnsupported})
	case scan.GrantFailed:
		s.logger.Error(c.Request.Context(), "scan failed for document",
			"service_id", serviceID, "document_id", documentID)
		c.JSON(scanFailedErrorCode, gin.H{"scan_verdict": scan.VerdictScanFailed})
	default:
		s.logger.Info(c.Request.Context(), "failed to read scan tags",
			"service_id", serviceID, "document_id", documentID, "error", verdictErr)
		c.AbortWithStatus(http.StatusNotFound)
	}
}

// decideAccess runs the verdict check for the download endpoints. The
// grant-with-caveat outcomes are logged here so both endpoints report them
// the same way.
func (s *Server) decideAccess(c *gin.Context, serviceID, documentID uuid.UUID, sendingMethod string) (scan.Decision, error) {
	_, verdictErr := s.scanTargets.CheckScanVerdict(c.Request.Context(), serviceID, documentID, sendingMethod)
	age := s.scanTargets.AgeFunc(c.Request.Context(), serviceID, documentID, sendingMethod)

	decision := scan.Decide(verdictErr, age, s.cfg.ScanTimeout)
	switch decision {
	case scan.DenyMalicious:
		s.logger.Info(c.Request.Context(), "malicious content detected, refused to download document",
			"service_id", serviceID, "document_id", documentID)
	case scan.GrantTimedOut:
		s.logger.Info(c.Request.Context(), "scan still in progress past the deadline, releasing document",
			"service_id", serviceID, "document_id", documentID)
	case scan.GrantUnsupported:
		s.logger.Warn(c.Request.Context(), "scan unsupported for document",
			"service_id", serviceID, "document_id", documentID)
	case scan.GrantFailed:
		s.logger.Error(c.Request.Context(), "scan failed for document",
			"service_id", serviceID, "document_id", documentID)
	case scan.DenyNotFound:
		s.logger.Info(c.Request.Context(), "failed to read scan tags",
			"service_id", serviceID, "document_id", documentID, "error", verdictErr)
	}
	return decision, verdictErr
}

func serveDocumentBody(c *gin.Context, body io.ReadCloser, contentType string, size int64, filename string) {
	extraHeaders := map[string]string{
		"X-Robots-Tag": "noindex, nofollow",
	}
	// attachment disposition only when the caller named the file
	if filename != "" {
		extraHeaders["Content-Disposition"] = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	}

	defer body.Close()
	c.DataFromReader(http.StatusOK, size, contentType, body, extraHeaders)
}
