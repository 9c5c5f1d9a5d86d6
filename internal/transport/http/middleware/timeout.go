package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "roombooking/internal/transport/http/response"
)

// Timeout bounds the request context. Store calls observe it; if nothing was
// written when it expires the client gets 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Fail(c, http.StatusGatewayTimeout, resp.MsgTimeout)
		}
	}
}
