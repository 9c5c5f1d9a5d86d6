package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roombooking/internal/domain"
	"roombooking/internal/feature/booking"
)

type BookingRepo struct {
	db     *gorm.DB
	txOpts *sql.TxOptions
}

// NewBookingRepo picks SERIALIZABLE for the create transaction on server
// databases. SQLite serializes writers itself (open it with _txlock=immediate).
func NewBookingRepo(db *gorm.DB) *BookingRepo {
	r := &BookingRepo{db: db}
	if db.Dialector.Name() != "sqlite" {
		r.txOpts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return r
}

func overlapping(iv domain.Interval, excludeID int64) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("start_time < ? AND end_time > ?", iv.End.UTC(), iv.Start.UTC())
		if excludeID > 0 {
			q = q.Where("id <> ?", excludeID)
		}
		return q
	}
}

func hasConflict(tx *gorm.DB, iv domain.Interval, excludeID int64) (bool, error) {
	var ids []int64
	err := tx.Model(&booking.BookingModel{}).
		Scopes(overlapping(iv, excludeID)).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return len(ids) > 0, nil
}

func (r *BookingRepo) HasConflict(ctx context.Context, iv domain.Interval, excludeID int64) (bool, error) {
	return hasConflict(r.db.WithContext(ctx), iv, excludeID)
}

func (r *BookingRepo) CreateWithNoOverlap(ctx context.Context, b *domain.Booking) error {
	m := booking.BookingModel{
		UserID:    b.UserID,
		StartTime: b.StartTime.UTC(),
		EndTime:   b.EndTime.UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clash, err := hasConflict(tx, b.Interval(), 0)
		if err != nil {
			return err
		}
		if clash {
			return domain.ErrBookingConflict
		}
		return tx.Create(&m).Error
	}, r.txOpts)
	if err != nil {
		if isSerializationFailure(err) {
			return domain.ErrConcurrentBooking
		}
		if errors.Is(err, domain.ErrBookingConflict) {
			return err
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	*b = m.ToDomain()
	return nil
}

func (r *BookingRepo) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m booking.BookingModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	b := m.ToDomain()
	return &b, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&booking.BookingModel{})
	if res.Error != nil {
		return false, fmt.Errorf("delete booking %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepo) ListDetailed(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	q := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("b.id, b.user_id, u.name AS user_name, b.start_time, b.end_time, b.created_at").
		Joins("JOIN users u ON u.id = b.user_id")
	if userID > 0 {
		q = q.Where("b.user_id = ?", userID)
	}
	var rows []domain.BookingDetail
	if err := q.Order("b.start_time, b.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if rows == nil {
		rows = []domain.BookingDetail{}
	}
	for i := range rows {
		rows[i].StartTime = rows[i].StartTime.UTC()
		rows[i].EndTime = rows[i].EndTime.UTC()
	}
	return rows, nil
}

type userBookingRow struct {
	UserID    int64
	UserName  string
	Role      string
	BookingID *int64
	StartTime *time.Time
	EndTime   *time.Time
	CreatedAt *time.Time
}

func (r *BookingRepo) ListGroupedByUser(ctx context.Context) ([]domain.UserBookings, error) {
	var rows []userBookingRow
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id AS user_id, u.name AS user_name, u.role, b.id AS booking_id, b.start_time, b.end_time, b.created_at").
		Joins("LEFT JOIN bookings b ON b.user_id = u.id").
		Order("u.id, b.start_time, b.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}

	out := []domain.UserBookings{}
	for _, row := range rows {
		if n := len(out); n == 0 || out[n-1].UserID != row.UserID {
			out = append(out, domain.UserBookings{
				UserID:   row.UserID,
				UserName: row.UserName,
				Role:     domain.Role(row.Role),
				Bookings: []domain.BookingSlot{},
			})
		}
		if row.BookingID == nil || row.StartTime == nil || row.EndTime == nil {
			continue
		}
		slot := domain.BookingSlot{
			ID:        *row.BookingID,
			StartTime: row.StartTime.UTC(),
			EndTime:   row.EndTime.UTC(),
		}
		if row.CreatedAt != nil {
			slot.CreatedAt = *row.CreatedAt
		}
		last := &out[len(out)-1]
		last.Bookings = append(last.Bookings, slot)
	}
	return out, nil
}
