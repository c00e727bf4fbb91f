package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/middleware"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	var input gateway.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid user payload: "+err.Error())
		return
	}

	user, err := h.users.Add(c.Request.Context(), input, middleware.GetUsername(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if username == middleware.GetUsername(c) {
		response.BadRequest(c, "cannot delete your own account")
		return
	}
	if err := h.users.Delete(c.Request.Context(), username, middleware.GetUsername(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
