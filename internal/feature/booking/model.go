package booking

import (
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/feature/user"
)

type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index"`
	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Only used by AutoMigrate to emit the cascading foreign key.
	User *user.UserModel `gorm:"constraint:OnDelete:CASCADE"`
}

func (BookingModel) TableName() string { return "bookings" }

func (m BookingModel) ToDomain() domain.Booking {
	return domain.Booking{
		ID:        m.ID,
		UserID:    m.UserID,
		StartTime: m.StartTime.UTC(),
		EndTime:   m.EndTime.UTC(),
		CreatedAt: m.CreatedAt,
	}
}
