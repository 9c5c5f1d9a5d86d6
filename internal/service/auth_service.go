package service

import (
	"context"
	"fmt"

	"roombooking/internal/domain"
)

// AuthService is the authorization gate: it resolves a caller id to a stored
// user and checks the stored role. Nothing is cached.
type AuthService struct {
	users domain.UserRepository
}

func NewAuthService(users domain.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Authorize(ctx context.Context, id int64, allowed domain.RoleSet) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUnknownCaller
	}
	if len(allowed) > 0 && !allowed.Allows(u.Role) {
		return nil, domain.ErrRoleMismatch.WithMsg(
			fmt.Sprintf("Forbidden. Requires %s role, but user's role is '%s'", allowed, u.Role))
	}
	return u, nil
}
