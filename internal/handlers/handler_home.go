package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// healthHandler reports whether the server and its backing stores are up.
type healthHandler struct {
	health portssvc.HealthSvc
}

// getHealth godoc
// @Summary Show the status of server.
// @Description Reports the reachability of every backing store. Responds 503 when any is down.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *healthHandler) getHealth(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	if h.health != nil {
		for name, err := range h.health.Check(c.Request.Context()) {
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "failures": components})
}

// RegisterHealthRoutes registers the public '/health' route.
func RegisterHealthRoutes(r gin.IRoutes, health portssvc.HealthSvc) {
	h := &healthHandler{health: health}
	r.GET("/health", h.getHealth)
}
