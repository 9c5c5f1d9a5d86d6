package service

import (
	"context"
	"sort"

	"roombooking/internal/domain"
)

type UsageService struct {
	bookings      domain.BookingRepository
	excludeAdmins bool
}

func NewUsageService(bookings domain.BookingRepository, excludeAdmins bool) *UsageService {
	return &UsageService{bookings: bookings, excludeAdmins: excludeAdmins}
}

func (s *UsageService) Summarize(ctx context.Context) ([]domain.UsageSummary, error) {
	groups, err := s.bookings.ListGroupedByUser(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(groups, s.excludeAdmins), nil
}

// Summarize counts bookings and booked minutes per user, busiest first.
// Ties keep the input order (user id ascending from the store).
func Summarize(groups []domain.UserBookings, excludeAdmins bool) []domain.UsageSummary {
	out := make([]domain.UsageSummary, 0, len(groups))
	for _, g := range groups {
		if excludeAdmins && g.Role == domain.RoleAdmin {
			continue
		}
		sum := domain.UsageSummary{UserID: g.UserID, UserName: g.UserName, Role: g.Role}
		for _, b := range g.Bookings {
			sum.TotalBookings++
			sum.TotalMinutesBooked += domain.Interval{Start: b.StartTime, End: b.EndTime}.Minutes()
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBookings > out[j].TotalBookings
	})
	return out
}
