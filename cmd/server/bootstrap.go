package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sm2control/backend/internal/config"
	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/handlers"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/internal/utils"
	"github.com/sm2control/backend/pkg/logger"
)

// App holds everything the router needs, wired once at startup.
type App struct {
	cfg *config.Config
	gw  gateway.Gateway

	authHandler      *handlers.AuthHandler
	projectHandler   *handlers.ProjectHandler
	recordHandler    *handlers.RecordHandler
	userHandler      *handlers.UserHandler
	workerHandler    *handlers.WorkerHandler
	netDefHandler    *handlers.NetworkDefinitionHandler
	dashboardHandler *handlers.DashboardHandler
	systemHandler    *handlers.SystemHandler

	reconcile *services.ReconcileService
}

func bootstrap(cfg *config.Config) (*App, error) {
	logger.Init(cfg.Log.Level)
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Money fields serialize as plain JSON numbers, matching what the
	// existing clients expect.
	decimal.MarshalJSONWithoutQuotes = true

	app := &App{cfg: cfg}

	var logs *services.SystemLogService
	switch cfg.Gateway.Mode {
	case "local":
		if err := models.InitDB(&cfg.Database); err != nil {
			return nil, err
		}
		if err := models.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		app.gw = gateway.NewLocal(models.GetDB())
		logs = services.NewSystemLogService(models.GetDB())
		app.reconcile = services.NewReconcileService(models.GetDB(), logs)
		logger.Info().Str("driver", cfg.Database.Driver).Msg("gateway running locally")
	case "remote":
		if cfg.Gateway.URL == "" {
			return nil, fmt.Errorf("gateway.url is required in remote mode")
		}
		app.gw = gateway.NewRemote(cfg.Gateway.URL)
		logger.Info().Str("url", cfg.Gateway.URL).Msg("gateway running remotely")
	default:
		return nil, fmt.Errorf("unknown gateway mode: %q", cfg.Gateway.Mode)
	}

	ldapSvc := services.NewLDAPService(&cfg.LDAP)
	authSvc := services.NewAuthService(app.gw, ldapSvc, &cfg.JWT, logs)
	projectSvc := services.NewProjectService(app.gw, logs)
	recordSvc := services.NewRecordService(app.gw, logs)
	userSvc := services.NewUserService(app.gw, logs)
	workerSvc := services.NewWorkerService(app.gw)
	netDefSvc := services.NewNetworkDefinitionService(app.gw)
	dashboardSvc := services.NewDashboardService(app.gw)
	summarySvc := services.NewSummaryService(&cfg.AI)

	app.authHandler = handlers.NewAuthHandler(authSvc)
	app.projectHandler = handlers.NewProjectHandler(projectSvc, recordSvc, summarySvc)
	app.recordHandler = handlers.NewRecordHandler(recordSvc)
	app.userHandler = handlers.NewUserHandler(userSvc)
	app.workerHandler = handlers.NewWorkerHandler(workerSvc)
	app.netDefHandler = handlers.NewNetworkDefinitionHandler(netDefSvc)
	app.dashboardHandler = handlers.NewDashboardHandler(dashboardSvc, summarySvc)
	app.systemHandler = handlers.NewSystemHandler(app.gw, logs, app.reconcile)

	if cfg.Gateway.Mode == "local" {
		if err := authSvc.EnsureDefaultAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
			logger.Warn().Err(err).Msg("could not seed default admin")
		}
		if err := app.reconcile.Start(); err != nil {
			return nil, fmt.Errorf("start reconciliation scheduler: %w", err)
		}
	}

	return app, nil
}

func (a *App) shutdown() {
	if a.reconcile != nil {
		a.reconcile.Stop()
	}
}
