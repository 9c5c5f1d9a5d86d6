package user

import (
	"time"

	"roombooking/internal/domain"
)

type UserModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:128;not null"`
	Role string `gorm:"size:16;not null;default:user;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{ID: m.ID, Name: m.Name, Role: domain.Role(m.Role), CreatedAt: m.CreatedAt}
}
