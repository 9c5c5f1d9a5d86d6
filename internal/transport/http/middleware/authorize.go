package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"roombooking/internal/core/auth"
	"roombooking/internal/domain"
	resp "roombooking/internal/transport/http/response"
)

const KeyCaller = "caller"

// Gate resolves a caller id to a stored user holding one of the allowed roles.
type Gate interface {
	Authorize(ctx context.Context, id int64, allowed domain.RoleSet) (*domain.User, error)
}

// Authorize identifies the caller with src and admits them only when their
// stored role is in roles. The role is read from the store on every request.
func Authorize(src auth.IdentitySource, gate Gate, roles ...domain.Role) gin.HandlerFunc {
	allowed := domain.RoleSet(roles)
	return func(c *gin.Context) {
		id, err := src.Identify(c.Request)
		if err != nil {
			resp.Abort(c, err)
			return
		}
		u, err := gate.Authorize(c.Request.Context(), id, allowed)
		if err != nil {
			resp.Abort(c, err)
			return
		}
		c.Set(KeyCaller, u)
		c.Next()
	}
}

// CurrentUser returns the caller admitted by Authorize, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyCaller)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
