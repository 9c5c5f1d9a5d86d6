package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"roombooking/internal/core/auth"
	"roombooking/internal/core/server"
	"roombooking/internal/domain"
	mdw "roombooking/internal/transport/http/middleware"
	resp "roombooking/internal/transport/http/response"
)

// Limits configures the hardening middleware. Zero values disable a limit.
type Limits struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitPerIP bool
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

type Deps struct {
	Logger      *zap.Logger
	Identity    auth.IdentitySource
	Gate        mdw.Gate
	Registry    *Registry
	Limits      Limits
	CORSOrigins []string
	// IdentityHeader is allowed through CORS when header identity is used.
	IdentityHeader string
	// Health is optional; it should report whether the store is reachable.
	Health func() error
}

func NewAPIEngine(d Deps) *gin.Engine {
	var extra []string
	if d.IdentityHeader != "" {
		extra = append(extra, d.IdentityHeader)
	}
	r := server.NewRouter(d.Logger, d.CORSOrigins, extra...)
	r.Use(mdw.RequestID(), mdw.AccessLog(d.Logger), mdw.Recovery(d.Logger), mdw.Metrics())

	lim := d.Limits
	if lim.RateLimitRPS > 0 {
		if lim.RateLimitPerIP {
			r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RateLimitRPS), lim.RateLimitBurst))
		} else {
			r.Use(mdw.RateLimit(rate.Limit(lim.RateLimitRPS), lim.RateLimitBurst))
		}
	}
	if lim.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.MaxConcurrent))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.RequestTimeout > 0 {
		r.Use(mdw.Timeout(lim.RequestTimeout))
	}

	r.NoRoute(func(c *gin.Context) { resp.Fail(c, http.StatusNotFound, resp.MsgNotFound) })
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, resp.Message("Api is running")) })
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(); err != nil {
				d.Logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	reg := d.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	reg.MountPublic(api.Group("/public"))

	// Each group admits exactly one stored role.
	reg.MountUser(api.Group("/user", mdw.Authorize(d.Identity, d.Gate, domain.RoleUser)))
	reg.MountOwner(api.Group("/owner", mdw.Authorize(d.Identity, d.Gate, domain.RoleOwner)))
	reg.MountAdmin(api.Group("/admin", mdw.Authorize(d.Identity, d.Gate, domain.RoleAdmin)))

	return r
}
