package server

import (
	admin "auction-site/internal/adminService"
	"auction-site/internal/realtime"
	"auction-site/internal/repository"
	"auction-site/internal/session"
	adminhandler "auction-site/services/admin/handler"
	sitehandler "auction-site/services/site/handler"
	"auction-site/utils"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dependencies groups what the router wires into handlers
type Dependencies struct {
	Store      repository.Store
	Sessions   *session.Manager
	Hub        *realtime.Hub
	SendBuffer int
	ReadLimit  int64
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("server: session manager is required")
	}

	router := gin.New() // New router without default middleware for full control over middleware and logging

	metrics := NewMetrics()

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // X-Request-ID
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(metrics.Middleware)

	templates, err := sitehandler.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("server: load templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	siteHandler := sitehandler.NewSiteHandler(deps.Store, deps.Sessions)
	for _, r := range siteHandler.Routes() {
		router.Handle(r.Method, r.Path, r.Handler)
	}

	adminHandler := adminhandler.NewAdminHandler(admin.NewAdminService(deps.Store))

	admins := router.Group("/admin")
	{
		admins.GET("", adminHandler.ListEntitiesHandler)
		admins.GET("/:entity", adminHandler.ListRecordsHandler)
		admins.POST("/:entity", adminHandler.CreateRecordHandler)
		admins.GET("/:entity/:id", adminHandler.GetRecordHandler)
		admins.PUT("/:entity/:id", adminHandler.UpdateRecordHandler)
		admins.DELETE("/:entity/:id", adminHandler.DeleteRecordHandler)
	}

	hub := deps.Hub
	if hub == nil {
		hub = realtime.NewHub()
	}
	chat := realtime.NewChatConsumer(deps.Store, hub, deps.SendBuffer, deps.ReadLimit)

	ws := router.Group("/ws", realtime.AuthMiddleware(deps.Store, deps.Sessions))
	for _, p := range realtime.URLPatterns(chat) {
		ws.GET(p.Path, p.Consumer)
	}

	router.GET("/metrics", metrics.Handler())
	router.GET("/healthz", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"healthy": true}, "ok")
	})

	return router, nil
}
