package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"roombooking/internal/domain"
)

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func roleList() string {
	parts := make([]string, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}

func requireAdmin(caller *domain.User) error {
	if caller == nil || caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden.WithMsg("Forbidden. Only admins can manage users")
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, caller *domain.User, name, role string) (*domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput.WithMsg("name is required and must be a non-empty string")
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidInput.WithMsg("role is required and must be one of: " + roleList())
	}

	u := domain.User{Name: name, Role: r}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)), zap.Int64("by", caller.ID))
	return &u, nil
}

// Delete removes a user and all of their bookings.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrInvalidUserID
	}
	if caller.ID == id {
		return domain.ErrCannotDeleteSelf
	}
	if err := s.users.DeleteWithBookings(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	s.log.Info("user deleted", zap.Int64("user_id", id), zap.Int64("by", caller.ID))
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, caller *domain.User, id int64, role string) (*domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidInput.WithMsg("role must be one of: " + roleList())
	}
	found, err := s.users.UpdateRole(ctx, id, r)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	s.log.Info("user role changed", zap.Int64("user_id", id), zap.String("role", string(r)), zap.Int64("by", caller.ID))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) ListPublic(ctx context.Context) ([]domain.PublicUser, error) {
	us, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(us))
	for _, u := range us {
		out = append(out, domain.PublicUser{ID: u.ID, Name: u.Name, Role: u.Role})
	}
	return out, nil
}

// EnsureAdmin creates an admin named name unless one already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, name string) (*domain.User, bool, error) {
	existing, err := s.users.FindFirstByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.ErrInvalidInput.WithMsg("admin name must not be empty")
	}
	u := domain.User{Name: name, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	s.log.Info("bootstrap admin created", zap.Int64("user_id", u.ID))
	return &u, true, nil
}
