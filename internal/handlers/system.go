package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

// SystemHandler exposes health, audit logs, and the on-demand balance audit.
type SystemHandler struct {
	gw        gateway.Gateway
	logs      *services.SystemLogService
	reconcile *services.ReconcileService
}

func NewSystemHandler(gw gateway.Gateway, logs *services.SystemLogService, reconcile *services.ReconcileService) *SystemHandler {
	return &SystemHandler{gw: gw, logs: logs, reconcile: reconcile}
}

// Health probes the gateway with a read and reports reachability.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := gateway.Call(c.Request.Context(), h.gw, gateway.OpGetDashboardData, nil); err != nil {
		c.JSON(503, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}

// Logs returns recent audit entries, newest first.
func (h *SystemHandler) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.logs.List(c.Query("level"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, entries)
}

// Reconcile runs the balance audit immediately and returns any drift found.
// Only available when the gateway runs locally.
func (h *SystemHandler) Reconcile(c *gin.Context) {
	if h.reconcile == nil {
		response.BadRequest(c, "reconciliation is only available in local gateway mode")
		return
	}
	drifts, err := h.reconcile.Reconcile()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"driftCount": len(drifts), "drifts": drifts})
}
