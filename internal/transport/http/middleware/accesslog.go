package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sensitiveKeys = map[string]struct{}{
	"password": {}, "pwd": {}, "token": {}, "authorization": {},
	"secret": {}, "client_secret": {}, "access_token": {},
}

func maskQuery(kv map[string][]string) map[string][]string {
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

// AccessLog writes one entry per request. Server errors recorded in c.Errors
// are attached and raise the level.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Any("query", maskQuery(c.Request.URL.Query())),
			zap.Int("size", c.Writer.Size()),
		}
		if u := CurrentUser(c); u != nil {
			fields = append(fields, zap.Int64("caller", u.ID))
		}
		lvl := zapcore.InfoLevel
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= 500 {
			lvl = zapcore.ErrorLevel
		}
		if ce := l.Check(lvl, "HTTP"); ce != nil {
			ce.Write(fields...)
		}
	}
}
