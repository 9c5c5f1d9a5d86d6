package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter returns a bare engine with CORS applied. Identity headers must be
// listed in allowHeaders or browsers drop them on preflight.
func NewRouter(l *zap.Logger, origins []string, allowHeaders ...string) *gin.Engine {
	r := gin.New()
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  append([]string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}, allowHeaders...),
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	r.Use(cors.New(cfg))
	l.Debug("cors configured", zap.Strings("origins", origins))
	return r
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
