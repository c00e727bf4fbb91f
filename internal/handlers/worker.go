package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type WorkerHandler struct {
	workers *services.WorkerService
}

func NewWorkerHandler(workers *services.WorkerService) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.workers.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, workers)
}

// Save creates or updates a worker; an empty id means create.
func (h *WorkerHandler) Save(c *gin.Context) {
	var worker models.Worker
	if err := c.ShouldBindJSON(&worker); err != nil {
		response.BadRequest(c, "invalid worker payload: "+err.Error())
		return
	}

	saved, err := h.workers.Save(c.Request.Context(), worker)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, saved)
}

func (h *WorkerHandler) Delete(c *gin.Context) {
	if err := h.workers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
