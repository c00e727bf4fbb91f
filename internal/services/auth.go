package services

import (
	"context"
	"errors"

	"github.com/sm2control/backend/internal/config"
	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/utils"
	"github.com/sm2control/backend/pkg/logger"
)

// AuthService verifies credentials through the gateway and issues JWTs.
// When LDAP is enabled it is tried first, with gateway accounts as fallback
// so the built-in admin keeps working when the directory is down.
type AuthService struct {
	gw   gateway.Gateway
	ldap *LDAPService
	cfg  *config.JWTConfig
	logs *SystemLogService
}

func NewAuthService(gw gateway.Gateway, ldap *LDAPService, cfg *config.JWTConfig, logs *SystemLogService) *AuthService {
	return &AuthService{gw: gw, ldap: ldap, cfg: cfg, logs: logs}
}

// LoginResult is what a successful sign-in returns to the client.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		s.logs.Log(models.LogLevelWarning, "login_failed", username, "")
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, s.cfg.ExpireHour)
	if err != nil {
		return nil, err
	}
	s.logs.Log(models.LogLevelInfo, "login", user.Username, "")
	return &LoginResult{Token: token, User: user}, nil
}

// Logout only audits the event; tokens are stateless and expire on their
// own, the client discards its copy.
func (s *AuthService) Logout(username string) {
	s.logs.Log(models.LogLevelInfo, "logout", username, "")
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if s.ldap != nil && s.ldap.Enabled() {
		if user, err := s.ldap.Authenticate(ctx, username, password); err == nil {
			return user, nil
		} else if !errors.Is(err, errLDAPUserNotFound) {
			logger.Warn().Err(err).Str("username", username).Msg("ldap authentication failed, trying gateway accounts")
		}
	}

	var user models.User
	if err := gateway.Call(ctx, s.gw, gateway.OpAuthenticateUser, &user, username, password); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureDefaultAdmin seeds an admin account when no users exist yet, so a
// fresh deployment can be signed into.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	var users []models.User
	if err := gateway.Call(ctx, s.gw, gateway.OpGetAllUsers, &users); err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	err := gateway.Call(ctx, s.gw, gateway.OpAddUser, nil, gateway.UserInput{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info().Str("username", username).Msg("created default admin account")
	return nil
}
