package response

import (
	"net/http"

	"roombooking/internal/domain"
)

// StatusOf maps a domain error kind to its HTTP status.
func StatusOf(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Messages for failures raised by the transport itself.
const (
	MsgInternal        = "internal server error"
	MsgInvalidJSON     = "Request body must be valid JSON"
	MsgTooLarge        = "Request body too large"
	MsgTooManyRequests = "Too many requests"
	MsgBusy            = "Server busy, please retry"
	MsgTimeout         = "Request timed out"
	MsgNotFound        = "Not found"
)
