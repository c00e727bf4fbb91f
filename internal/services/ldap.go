package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"github.com/sm2control/backend/internal/config"
	"github.com/sm2control/backend/internal/models"
)

var errLDAPUserNotFound = errors.New("user not found in directory")

// LDAPService authenticates users against a company directory. Directory
// users get the regular "user" role; admin accounts stay local.
type LDAPService struct {
	cfg *config.LDAPConfig
}

func NewLDAPService(cfg *config.LDAPConfig) *LDAPService {
	return &LDAPService{cfg: cfg}
}

func (s *LDAPService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

func (s *LDAPService) connect() (*ldap.Conn, error) {
	if s.cfg.UseSSL {
		url := fmt.Sprintf("ldaps://%s:%d", s.cfg.Host, s.cfg.Port)
		return ldap.DialURL(url, ldap.DialWithTLSConfig(&tls.Config{ServerName: s.cfg.Host}))
	}
	return ldap.DialURL(fmt.Sprintf("ldap://%s:%d", s.cfg.Host, s.cfg.Port))
}

// Authenticate binds as the service account, finds the user entry, then
// re-binds with the user's own credentials.
func (s *LDAPService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	conn, err := s.connect()
	if err != nil {
		return nil, fmt.Errorf("ldap connect: %w", err)
	}
	defer conn.Close()

	if s.cfg.BindDN != "" {
		if err := conn.Bind(s.cfg.BindDN, s.cfg.BindPassword); err != nil {
			return nil, fmt.Errorf("ldap service bind: %w", err)
		}
	}

	req := ldap.NewSearchRequest(
		s.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 10, false,
		fmt.Sprintf(s.cfg.UserFilter, ldap.EscapeFilter(username)),
		[]string{"dn", "cn"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ldap search: %w", err)
	}
	if len(res.Entries) == 0 {
		return nil, errLDAPUserNotFound
	}

	entry := res.Entries[0]
	if err := conn.Bind(entry.DN, password); err != nil {
		return nil, errors.New("invalid directory credentials")
	}

	return &models.User{Username: username, Role: models.RoleUser}, nil
}
