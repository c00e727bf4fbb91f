package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/middleware"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type ProjectHandler struct {
	projects *services.ProjectService
	records  *services.RecordService
	summary  *services.SummaryService
}

func NewProjectHandler(projects *services.ProjectService, records *services.RecordService, summary *services.SummaryService) *ProjectHandler {
	return &ProjectHandler{projects: projects, records: records, summary: summary}
}

// List returns every project with its computed budget position.
func (h *ProjectHandler) List(c *gin.Context) {
	stats, err := h.projects.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// Get returns one project by WBS.
func (h *ProjectHandler) Get(c *gin.Context) {
	stats, err := h.projects.Get(c.Request.Context(), c.Param("wbs"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// Create registers a new project.
func (h *ProjectHandler) Create(c *gin.Context) {
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		response.BadRequest(c, "invalid project payload: "+err.Error())
		return
	}

	saved, err := h.projects.Save(c.Request.Context(), project, "", middleware.GetUsername(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, saved)
}

// Update replaces the project identified by the WBS in the path.
func (h *ProjectHandler) Update(c *gin.Context) {
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		response.BadRequest(c, "invalid project payload: "+err.Error())
		return
	}

	saved, err := h.projects.Save(c.Request.Context(), project, c.Param("wbs"), middleware.GetUsername(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, saved)
}

// Summary returns an AI-written narrative of one project and its cut
// history, degrading to a fixed fallback text when the provider fails.
func (h *ProjectHandler) Summary(c *gin.Context) {
	stats, err := h.projects.Get(c.Request.Context(), c.Param("wbs"))
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.records.List(c.Request.Context(), services.RecordFilter{WBS: stats.WBS})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"summary": h.summary.SummarizeProject(c.Request.Context(), stats, records)})
}

// Delete removes a project together with its networks and cut history.
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("wbs"), middleware.GetUsername(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
