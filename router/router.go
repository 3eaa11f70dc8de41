package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"zoo/animals"
	"zoo/handlers"
	"zoo/i18n"
	"zoo/middleware"
)

type Options struct {
	Service *animals.Service
	Store   handlers.Pinger
	Bundle  *i18n.Bundle
	Logger  *zap.Logger

	// CORSOrigins empty allows every origin.
	CORSOrigins []string
}

func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(corsMiddleware(opts.CORSOrigins))
	r.Use(middleware.Language(opts.Bundle))

	r.GET("/health", handlers.HealthCheck)
	r.GET("/health/ready", handlers.ReadinessCheck(opts.Store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// /animals/search is registered before /animals/:id; gin prefers the static segment.
	r.GET("/animals/search", handlers.SearchAnimals(opts.Service, opts.Bundle))
	r.GET("/animals", handlers.ListAnimals(opts.Service, opts.Bundle))
	r.GET("/animals/:id", handlers.GetAnimal(opts.Service, opts.Bundle))
	r.POST("/animals", handlers.CreateAnimal(opts.Service, opts.Bundle))
	r.PUT("/animals/:id", handlers.UpdateAnimal(opts.Service, opts.Bundle))
	r.DELETE("/animals/:id", handlers.DeleteAnimal(opts.Service, opts.Bundle))

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Accept-Language", middleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	return cors.New(cfg)
}
