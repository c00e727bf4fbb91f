package main

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sm2control/backend/internal/middleware"
	"github.com/sm2control/backend/pkg/logger"
)

func (a *App) setupRouter() *gin.Engine {
	gin.SetMode(a.cfg.Server.Mode)

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	r.GET("/api/health", a.systemHandler.Health)

	// Login is throttled per IP to slow down credential guessing.
	loginLimiter := middleware.NewRateLimiter(rate.Limit(1), 5)
	r.POST("/api/auth/login", loginLimiter.Middleware(), a.authHandler.Login)

	api := r.Group("/api", middleware.AuthRequired())
	{
		api.GET("/auth/me", a.authHandler.Me)
		api.POST("/auth/logout", a.authHandler.Logout)

		api.GET("/projects", a.projectHandler.List)
		api.POST("/projects", a.projectHandler.Create)
		api.GET("/projects/:wbs", a.projectHandler.Get)
		api.GET("/projects/:wbs/summary", a.projectHandler.Summary)
		api.PUT("/projects/:wbs", a.projectHandler.Update)
		api.DELETE("/projects/:wbs", a.projectHandler.Delete)

		api.GET("/records", a.recordHandler.List)
		api.POST("/records", a.recordHandler.Create)
		api.POST("/records/validate", a.recordHandler.Validate)
		api.PUT("/records/:id", a.recordHandler.Update)
		api.DELETE("/records/:id", a.recordHandler.Delete)

		api.GET("/workers", a.workerHandler.List)
		api.POST("/workers", a.workerHandler.Save)
		api.DELETE("/workers/:id", a.workerHandler.Delete)

		api.GET("/network-definitions", a.netDefHandler.List)
		api.POST("/network-definitions", a.netDefHandler.Save)
		api.DELETE("/network-definitions/:code", a.netDefHandler.Delete)

		api.GET("/dashboard", a.dashboardHandler.Get)
		api.GET("/dashboard/summary", a.dashboardHandler.Summary)
	}

	admin := r.Group("/api/admin", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/users", a.userHandler.List)
		admin.POST("/users", a.userHandler.Create)
		admin.DELETE("/users/:username", a.userHandler.Delete)

		admin.GET("/logs", a.systemHandler.Logs)
		admin.POST("/reconcile", a.systemHandler.Reconcile)
	}

	return r
}
