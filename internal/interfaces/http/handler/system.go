package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	carriers  func() []string
}

// NewSystemHandler creates a new SystemHandler. The carriers function
// reports the registered carrier names for the health payload.
func NewSystemHandler(carriers func() []string) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		carriers:  carriers,
	}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string   `json:"status"`
	GoVersion string   `json:"go_version"`
	Uptime    string   `json:"uptime"`
	Carriers  []string `json:"carriers"`
}

// Health reports service liveness and the registered carrier set
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Carriers:  h.carriers(),
	}

	h.Success(c, resp)
}
