package domain

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error is a business-rule failure. Two errors match under errors.Is when
// their codes are equal, so a sentinel can carry a per-request message.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMsg returns a copy of e with a different message.
func (e *Error) WithMsg(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: msg}
}

var (
	ErrMissingIdentifier = &Error{KindAuthentication, "MissingIdentifier", "Missing user-id"}
	ErrInvalidIdentifier = &Error{KindValidation, "InvalidIdentifier", "user-id must be number"}
	ErrInvalidCredential = &Error{KindAuthentication, "InvalidCredential", "Invalid or expired token"}
	ErrUnknownCaller     = &Error{KindAuthentication, "UnknownCaller", "User not found"}
	ErrRoleMismatch      = &Error{KindAuthorization, "RoleMismatch", "Forbidden"}

	ErrInvalidInterval   = &Error{KindValidation, "InvalidInterval", "invalid booking interval"}
	ErrBookingConflict   = &Error{KindConflict, "BookingConflict", "Booking conflicts with an existing booking. Back-to-back bookings are allowed (e.g. 09:00-10:00 and 10:00-11:00), but overlapping times are not."}
	ErrConcurrentBooking = &Error{KindConflict, "ConcurrentBooking", "Booking could not be confirmed because of a concurrent change, please retry"}
	ErrInvalidUserID     = &Error{KindValidation, "InvalidUserId", "Invalid user id"}
	ErrInvalidBookingID  = &Error{KindValidation, "InvalidBookingId", "Invalid booking id"}
	ErrBookingNotFound   = &Error{KindNotFound, "BookingNotFound", "Booking not found"}

	ErrForbidden        = &Error{KindAuthorization, "Forbidden", "Forbidden"}
	ErrInvalidInput     = &Error{KindValidation, "InvalidInput", "invalid input"}
	ErrCannotDeleteSelf = &Error{KindValidation, "CannotDeleteSelf", "Admins cannot delete their own account"}
	ErrUserNotFound     = &Error{KindNotFound, "UserNotFound", "User not found"}
)
