package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"roombooking/internal/core/auth"
	"roombooking/internal/domain"
	"roombooking/internal/service"
	"roombooking/internal/transport/http/ez"
	mdw "roombooking/internal/transport/http/middleware"
	resp "roombooking/internal/transport/http/response"
)

type createUserIn struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type changeRoleIn struct {
	Role string `json:"role"`
}

type tokenOut struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserHandler struct {
	users *service.UserService
	// Optional; the token route is mounted only when set.
	issuer *auth.JWTer
}

func NewUserHandler(users *service.UserService, issuer *auth.JWTer) *UserHandler {
	return &UserHandler{users: users, issuer: issuer}
}

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountPublic(g *gin.RouterGroup) {
	ez.GET(g, "/users", h.listPublic)
}

func (h *UserHandler) MountOwner(g *gin.RouterGroup) {
	ez.GET(g, "/users", h.list)
}

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	ez.GET(g, "/users", h.list)
	ez.POST(g, "/users", h.create)
	ez.DELETE(g, "/users/:id", h.delete)
	ez.PATCH(g, "/users/:id/role", h.changeRole)
	if h.issuer != nil {
		ez.POST(g, "/users/:id/token", h.issueToken)
	}
}

func (h *UserHandler) listPublic(c *gin.Context, _ *ez.Empty) ([]domain.PublicUser, error) {
	return h.users.ListPublic(c.Request.Context())
}

func (h *UserHandler) list(c *gin.Context, _ *ez.Empty) ([]domain.User, error) {
	return h.users.List(c.Request.Context())
}

func (h *UserHandler) create(c *gin.Context, in *createUserIn) (*domain.User, error) {
	return h.users.Create(c.Request.Context(), mdw.CurrentUser(c), in.Name, in.Role)
}

func (h *UserHandler) delete(c *gin.Context, _ *ez.Empty) (resp.MessageBody, error) {
	id, err := pathID(c, domain.ErrInvalidUserID)
	if err != nil {
		return resp.MessageBody{}, err
	}
	if err := h.users.Delete(c.Request.Context(), mdw.CurrentUser(c), id); err != nil {
		return resp.MessageBody{}, err
	}
	return resp.Message("User and their bookings deleted successfully"), nil
}

func (h *UserHandler) changeRole(c *gin.Context, in *changeRoleIn) (*domain.User, error) {
	id, err := pathID(c, domain.ErrInvalidUserID)
	if err != nil {
		return nil, err
	}
	return h.users.ChangeRole(c.Request.Context(), mdw.CurrentUser(c), id, in.Role)
}

func (h *UserHandler) issueToken(c *gin.Context, _ *ez.Empty) (tokenOut, error) {
	id, err := pathID(c, domain.ErrInvalidUserID)
	if err != nil {
		return tokenOut{}, err
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		return tokenOut{}, err
	}
	tok, exp, err := h.issuer.Issue(u.ID)
	if err != nil {
		return tokenOut{}, fmt.Errorf("issue token: %w", err)
	}
	return tokenOut{UserID: u.ID, Token: tok, ExpiresAt: exp.UTC()}, nil
}
