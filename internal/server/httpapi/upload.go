package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/common"
)

func (s *Server) uploadDocument(c *gin.Context) {
	serviceID := c.MustGet(serviceIDKey).(uuid.UUID)

	if c.Request.ContentLength > s.cfg.MaxContentLength {
		c.JSON(http.StatusRequestEntityTooLarge,
			gin.H{"error": "Uploaded document exceeds file size limit"})
		return
	}
	// backstop for chunked bodies with no declared length
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxContentLength)

	file, _, err := c.Request.FormFile("document")
	if err != nil {
		if isRequestTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge,
				gin.H{"error": "Uploaded document exceeds file size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document upload"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		if isRequestTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge,
				gin.H{"error": "Uploaded document exceeds file size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document upload"})
		return
	}

	mimeType := sniffMimeType(content)
	if !s.mimeTypeIsAllowed(mimeType, serviceID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unsupported document type '%s'. Supported types are: %s",
				mimeType, strings.Join(s.cfg.AllowedMimeTypes, ", ")),
		})
		return
	}

	filename := c.PostForm("filename")
	fileExt := fileExtension(filename)

	// MIME sniffing resolves CSV content as text/plain; the filename lets us
	// fix that.
	if strings.HasSuffix(strings.ToLower(filename), ".csv") && mimeType == "text/plain" {
		mimeType = "text/csv"
	}

	sendingMethod := c.PostForm("sending_method")
	if sendingMethod != "" && sendingMethod != common.SendingMethodLink && sendingMethod != common.SendingMethodAttach {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid sending method '%s'. Supported methods are: %s, %s",
				sendingMethod, common.SendingMethodLink, common.SendingMethodAttach),
		})
		return
	}

	document, err := s.documents.Put(c.Request.Context(), serviceID, bytes.NewReader(content), sendingMethod, mimeType)
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to store document", "service_id", serviceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
		return
	}
	// the response below carries the only copy of the key
	defer common.WipeByteArray(document.EncryptionKey)

	if err := s.scanTargets.Put(c.Request.Context(), serviceID, document.DocumentID, bytes.NewReader(content), sendingMethod, mimeType); err != nil {
		s.logger.Error(c.Request.Context(), "failed to store scan-target copy",
			"service_id", serviceID, "document_id", document.DocumentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
		return
	}

	if s.scanner != nil {
		s.enqueueScan(content, mimeType, serviceID, document.DocumentID, sendingMethod)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "ok",
		"document": gin.H{
			"id": document.DocumentID,
			"direct_file_url": DirectFileURL(s.cfg.HTTPScheme, s.cfg.BackendHostname,
				serviceID, document.DocumentID, document.EncryptionKey, sendingMethod),
			"url": APIDownloadURL(s.cfg.HTTPScheme, s.cfg.BackendHostname,
				serviceID, document.DocumentID, document.EncryptionKey, filename),
			"filename":       strOrNil(filename),
			"sending_method": strOrNil(sendingMethod),
			"mime_type":      mimeType,
			"file_size":      len(content),
			"file_extension": strOrNil(fileExt),
		},
	})
}

func isRequestTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

// enqueueScan schedules the inline scan; the verdict is written back to the
// scan-target object's av-status tag when the job completes.
func (s *Server) enqueueScan(content []byte, mimeType string, serviceID, documentID uuid.UUID, sendingMethod string) {
	s.queue.Submit("inline-scan", func(ctx context.Context) error {
		verdict, err := s.scanner.Scan(ctx, content, mimeType)
		if err != nil {
			return fmt.Errorf("scanning document %s: %w", documentID, err)
		}
		if err := s.scanTargets.UpdateAVStatus(ctx, serviceID, documentID, sendingMethod, verdict); err != nil {
			return fmt.Errorf("tagging document %s: %w", documentID, err)
		}
		s.logger.Info(ctx, "inline scan complete", "document_id", documentID, "scan_verdict", verdict)
		return nil
	})
}

func (s *Server) mimeTypeIsAllowed(mimeType string, serviceID uuid.UUID) bool {
	for _, allowed := range s.cfg.AllowedMimeTypes {
		if mimeType == allowed {
			return true
		}
	}
	// per-service overrides, formatted "serviceID:mimeType"
	override := fmt.Sprintf("%s:%s", serviceID, mimeType)
	for _, extra := range s.cfg.ExtraMimeTypes {
		if override == extra {
			return true
		}
	}
	return false
}

// sniffMimeType detects the content type from the payload itself, dropping
// any charset parameter the detector appends.
func sniffMimeType(content []byte) string {
	detected := mimetype.Detect(content).String()
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	return strings.TrimSpace(detected)
}

// fileExtension returns every suffix of the lowercased filename, so
// "report.tar.gz" yields "tar.gz". A bare name, or a leading-dot name like
// ".profile", has no extension.
func fileExtension(filename string) string {
	name := strings.ToLower(filename)
	name = strings.TrimLeft(name, ".")
	if i := strings.Index(name, "."); i >= 0 {
		return name[i+1:]
	}
	return ""
}

func strOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
