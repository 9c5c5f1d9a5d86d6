package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"roombooking/internal/domain"
)

type BookingService struct {
	bookings domain.BookingRepository
	log      *zap.Logger
}

func NewBookingService(bookings domain.BookingRepository, log *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, log: log}
}

// HasConflict reports whether iv overlaps any booking other than excludeID.
func (s *BookingService) HasConflict(ctx context.Context, iv domain.Interval, excludeID int64) (bool, error) {
	return s.bookings.HasConflict(ctx, iv, excludeID)
}

// Create books [startRaw, endRaw) for caller and returns the updated list.
func (s *BookingService) Create(ctx context.Context, caller *domain.User, startRaw, endRaw string) ([]domain.BookingDetail, error) {
	if caller == nil {
		return nil, domain.ErrUnknownCaller
	}
	iv, err := domain.ParseInterval(startRaw, endRaw)
	if err != nil {
		bookingOutcomes.WithLabelValues("invalid").Inc()
		return nil, err
	}

	b := domain.Booking{UserID: caller.ID, StartTime: iv.Start, EndTime: iv.End}
	if err := s.bookings.CreateWithNoOverlap(ctx, &b); err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindConflict {
			bookingOutcomes.WithLabelValues("conflict").Inc()
			return nil, err
		}
		bookingOutcomes.WithLabelValues("error").Inc()
		return nil, err
	}
	bookingOutcomes.WithLabelValues("created").Inc()
	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("user_id", caller.ID),
		zap.Time("start", b.StartTime),
		zap.Time("end", b.EndTime),
	)
	return s.ListAll(ctx)
}

func (s *BookingService) ListAll(ctx context.Context) ([]domain.BookingDetail, error) {
	return s.bookings.ListDetailed(ctx, 0)
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	return s.bookings.ListDetailed(ctx, userID)
}

// Delete removes a booking. Callers with the user role may only delete their own.
func (s *BookingService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if caller == nil {
		return domain.ErrUnknownCaller
	}
	if id <= 0 {
		return domain.ErrInvalidBookingID
	}
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrBookingNotFound
	}
	if caller.Role == domain.RoleUser && b.UserID != caller.ID {
		return domain.ErrForbidden.WithMsg("You can only delete your own bookings")
	}
	ok, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBookingNotFound
	}
	s.log.Info("booking deleted",
		zap.Int64("booking_id", id),
		zap.Int64("owner_id", b.UserID),
		zap.Int64("by", caller.ID),
	)
	return nil
}

func (s *BookingService) GroupedByUser(ctx context.Context) ([]domain.UserBookings, error) {
	groups, err := s.bookings.ListGroupedByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("group bookings: %w", err)
	}
	return groups, nil
}
