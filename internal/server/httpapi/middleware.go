package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/common"
)

const serviceIDKey = "serviceID"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID, err := common.MakeRandHexString(8)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "failed to generate request id", "error", err)
			requestID = "unknown"
		}
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// requireAuth gates the upload surface. A missing token is 401, a token that
// fails verification is 403. The service ID from the path is parsed here so
// JWT scope can be checked against it; the handler picks it up from the
// context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		serviceID, err := uuid.Parse(c.Param("serviceID"))
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if err := s.verifier.Verify(token, serviceID); err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					gin.H{"error": "Unauthorized, authentication token must be provided"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": "Invalid credentials"})
			return
		}

		c.Set(serviceIDKey, serviceID)
		c.Next()
	}
}

func bearerToken(header string) string {
	if h := strings.TrimPrefix(header, "Bearer "); h != header {
		return h
	}
	return header
}
