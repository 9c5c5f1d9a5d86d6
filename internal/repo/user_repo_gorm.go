package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"roombooking/internal/domain"
	"roombooking/internal/feature/booking"
	"roombooking/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.UserModel{Name: u.Name, Role: string(u.Role)}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	*u = m.ToDomain()
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	u := m.ToDomain()
	return &u, nil
}

func (r *UserRepo) FindFirstByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("id").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s user: %w", role, err)
	}
	u := m.ToDomain()
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) (bool, error) {
	res := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Update("role", string(role))
	if res.Error != nil {
		return false, fmt.Errorf("update role of user %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// mysql reports 0 affected rows when the value is unchanged
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("find user %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *UserRepo) DeleteWithBookings(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&booking.BookingModel{}).Error; err != nil {
			return fmt.Errorf("delete bookings of user %d: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&user.UserModel{})
		if res.Error != nil {
			return fmt.Errorf("delete user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
