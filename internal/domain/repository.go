package domain

import "context"

// UserRepository finders return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindFirstByRole(ctx context.Context, role Role) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id int64, role Role) (bool, error)
	// DeleteWithBookings removes the user's bookings and then the user in one
	// transaction. Returns ErrUserNotFound if the user does not exist.
	DeleteWithBookings(ctx context.Context, id int64) error
}

type BookingRepository interface {
	// HasConflict reports whether any booking other than excludeID overlaps iv.
	// excludeID <= 0 excludes nothing.
	HasConflict(ctx context.Context, iv Interval, excludeID int64) (bool, error)
	// CreateWithNoOverlap checks for conflicts and inserts atomically.
	// Returns ErrBookingConflict or ErrConcurrentBooking.
	CreateWithNoOverlap(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id int64) (*Booking, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// ListDetailed returns bookings ordered by start time; userID <= 0 lists all.
	ListDetailed(ctx context.Context, userID int64) ([]BookingDetail, error)
	ListGroupedByUser(ctx context.Context) ([]UserBookings, error)
}
