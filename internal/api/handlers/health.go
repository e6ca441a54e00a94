package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version is reported by the health endpoint; set at build time
var Version = "dev"

const pingTimeout = 2 * time.Second

// HealthHandler reports process and database health
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// Health returns the health status of the application
// @Summary Health check
// @Description Overall status including database connectivity
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Application is healthy"
// @Failure 503 {object} HealthResponse "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	err := h.ping(c.Request.Context())

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Services:  map[string]string{"database": h.describe(err, "healthy")},
	}
	if err != nil {
		response.Status = "unhealthy"
	}
	c.JSON(statusFor(err), response)
}

// Ready reports whether requests can be served
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Ready"
// @Failure 503 {object} map[string]interface{} "Database not ready"
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	err := h.ping(c.Request.Context())
	c.JSON(statusFor(err), gin.H{
		"ready":     err == nil,
		"timestamp": time.Now(),
		"services":  gin.H{"database": h.describe(err, "ready")},
	})
}

// Live answers as long as the process serves HTTP
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Alive"
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alive": true, "timestamp": time.Now()})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// describe renders the database entry as "<driver> <state>" or the error
func (h *HealthHandler) describe(err error, ok string) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return h.db.Dialector.Name() + " " + ok
}

func statusFor(err error) int {
	if err != nil {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
