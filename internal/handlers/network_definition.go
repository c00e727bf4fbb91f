package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type NetworkDefinitionHandler struct {
	defs *services.NetworkDefinitionService
}

func NewNetworkDefinitionHandler(defs *services.NetworkDefinitionService) *NetworkDefinitionHandler {
	return &NetworkDefinitionHandler{defs: defs}
}

func (h *NetworkDefinitionHandler) List(c *gin.Context) {
	defs, err := h.defs.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, defs)
}

// Save upserts a catalog entry keyed by network code.
func (h *NetworkDefinitionHandler) Save(c *gin.Context) {
	var def models.NetworkDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		response.BadRequest(c, "invalid network definition payload: "+err.Error())
		return
	}

	saved, err := h.defs.Save(c.Request.Context(), def)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, saved)
}

func (h *NetworkDefinitionHandler) Delete(c *gin.Context) {
	if err := h.defs.Delete(c.Request.Context(), c.Param("code")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
