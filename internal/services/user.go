package services

import (
	"context"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

// UserService manages login accounts through the gateway.
type UserService struct {
	gw   gateway.Gateway
	logs *SystemLogService
}

func NewUserService(gw gateway.Gateway, logs *SystemLogService) *UserService {
	return &UserService{gw: gw, logs: logs}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := gateway.Call(ctx, s.gw, gateway.OpGetAllUsers, &users)
	return users, err
}

func (s *UserService) Add(ctx context.Context, input gateway.UserInput, actor string) (*models.User, error) {
	var user models.User
	if err := gateway.Call(ctx, s.gw, gateway.OpAddUser, &user, input); err != nil {
		return nil, err
	}
	s.logs.Log(models.LogLevelInfo, "user_added", actor, user.Username)
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, username string, actor string) error {
	if err := gateway.Call(ctx, s.gw, gateway.OpDeleteUser, nil, username); err != nil {
		return err
	}
	s.logs.Log(models.LogLevelWarning, "user_deleted", actor, username)
	return nil
}
