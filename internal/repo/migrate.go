package repo

import (
	"gorm.io/gorm"

	"roombooking/internal/feature/booking"
	"roombooking/internal/feature/user"
)

// Migrate creates or updates the users and bookings tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.UserModel{}, &booking.BookingModel{})
}
