// Package handlers wires HTTP requests to the service layer.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/budget"
	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/pkg/response"
)

// fail maps domain errors onto HTTP statuses. Budget rejections are 422 so
// the client can tell a limit breach from a malformed request.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, gateway.ErrDuplicateWBS):
		response.Error(c, response.NewConflict(err.Error()))
	case errors.Is(err, gateway.ErrBadCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, budget.ErrExceedsGlobalLimit),
		errors.Is(err, budget.ErrExceedsCategoryBudget),
		errors.Is(err, budget.ErrUnknownNetwork):
		response.Unprocessable(c, err.Error())
	default:
		response.Error(c, err)
	}
}
