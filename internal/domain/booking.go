package domain

import (
	"strings"
	"time"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share an instant.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && iv.End.After(o.Start)
}

func (iv Interval) Minutes() int64 {
	return int64(iv.End.Sub(iv.Start) / time.Minute)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts ISO-8601 timestamps. Values without a zone are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseInterval validates a raw start/end pair into an Interval.
func ParseInterval(startRaw, endRaw string) (Interval, error) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return Interval{}, ErrInvalidInterval.WithMsg("startTime and endTime are required")
	}
	start, ok1 := ParseTime(startRaw)
	end, ok2 := ParseTime(endRaw)
	if !ok1 || !ok2 {
		return Interval{}, ErrInvalidInterval.WithMsg("startTime and endTime must be valid ISO 8601 datetime strings")
	}
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval.WithMsg("startTime must be strictly before endTime")
	}
	return Interval{Start: start, End: end}, nil
}

type Booking struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

func (b Booking) Interval() Interval { return Interval{Start: b.StartTime, End: b.EndTime} }

// BookingDetail is a booking joined with its owner's name.
type BookingDetail struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingSlot struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBookings is one entry of the grouped-by-user view.
type UserBookings struct {
	UserID   int64         `json:"user_id"`
	UserName string        `json:"user_name"`
	Role     Role          `json:"role"`
	Bookings []BookingSlot `json:"bookings"`
}

type UsageSummary struct {
	UserID             int64  `json:"user_id"`
	UserName           string `json:"user_name"`
	Role               Role   `json:"role"`
	TotalBookings      int64  `json:"total_bookings"`
	TotalMinutesBooked int64  `json:"total_minutes_booked"`
}
