package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers backs /livez and /readyz. Ready is the aggregate check the
// app wires in (Mongo ping when persistence is on; always ready in
// memory-only mode).
type HealthHandlers struct {
	Ready func() error
}

// Livez answers as long as the process serves requests.
func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Readyz reports whether the booking API can take traffic.
func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.Status(http.StatusOK)
}
