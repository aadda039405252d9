package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/passcheck-api/internal/wordlist"
)

// Handler serves the operational endpoints: liveness, readiness and
// metrics.
type Handler struct {
	common *wordlist.Set
}

// NewHandler creates a new handler instance
func NewHandler(common *wordlist.Set) *Handler {
	return &Handler{common: common}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports ready as soon as the process is serving; the
// common-password list is best-effort, so its size is informational only.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"time":          time.Now(),
		"wordlist_size": h.common.Len(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
