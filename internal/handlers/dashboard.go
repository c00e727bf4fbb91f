package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	summary   *services.SummaryService
}

func NewDashboardHandler(dashboard *services.DashboardService, summary *services.SummaryService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, summary: summary}
}

// Get returns the aggregate budget position across all projects.
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, d)
}

// Summary returns an AI-written narrative of the dashboard. The provider
// failing is not an error; the client gets a fixed fallback text instead.
func (h *DashboardHandler) Summary(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"summary": h.summary.Summarize(c.Request.Context(), d)})
}
