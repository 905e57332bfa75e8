package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) status(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
