package bootstrap

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/rcos/telescope-api/internal/api/http"
	"github.com/rcos/telescope-api/internal/api/http/middleware"
	projectcache "github.com/rcos/telescope-api/internal/projects/cache"
	projecthttp "github.com/rcos/telescope-api/internal/projects/http"
	projectrepo "github.com/rcos/telescope-api/internal/projects/repository"
	projectservice "github.com/rcos/telescope-api/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *sql.DB
	Redis          *redis.Client // optional; nil disables the project cache
	CacheTTL       time.Duration
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *slog.Logger
	Registry       *prometheus.Registry // optional; a fresh registry is used when nil
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Logger
	if log == nil {
		log = slog.Default()
	}
	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(log))
	r.Use(middleware.NewMetrics(reg).Handler())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	r.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	var store projectservice.Store = projectrepo.NewProjectRepository(dep.DB)
	if dep.Redis != nil {
		store = projectcache.New(store, dep.Redis, dep.CacheTTL, log)
	}
	projectHandler := projecthttp.New(projectservice.NewProjectService(store), log)
	projectHandler.Register(r.Group("/projects"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Accept", "Content-Type", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
