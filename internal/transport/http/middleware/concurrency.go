package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "roombooking/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to protect the store. A request
// that cannot get a slot before its context ends gets 503.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Fail(c, http.StatusServiceUnavailable, resp.MsgBusy)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
