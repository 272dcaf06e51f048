package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"campustech-backend/internal/config"
	"campustech-backend/internal/http/handlers"
	"campustech-backend/internal/http/middleware"
	"campustech-backend/internal/service"
	"campustech-backend/internal/upload"
)

// Services are the business services the routes are bound to.
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Catalog *service.CatalogService
	Carts   *service.CartService
	Orders  *service.OrderService
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, svc Services) *Server {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	engine.MaxMultipartMemory = cfg.UploadMaxBytes
	if cfg.UploadDir != "" {
		engine.Static(upload.URLPrefix, cfg.UploadDir)
	}

	api := engine.Group("/api")
	protected := api.Group("", middleware.Authenticate(svc.Auth))

	handlers.NewHealthHandler(time.Now()).Register(api)
	handlers.NewAuthHandler(svc.Auth, svc.Users).Register(api, protected)
	handlers.NewItemHandler(svc.Catalog).Register(api, protected)
	handlers.NewCartHandler(svc.Carts).Register(protected)
	handlers.NewOrderHandler(svc.Orders).Register(protected)
	handlers.NewUserHandler(svc.Users).Register(protected)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
