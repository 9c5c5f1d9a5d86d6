package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roombooking/internal/domain"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody confirms an operation that has nothing else to return.
type MessageBody struct {
	Message string `json:"message"`
}

func Message(msg string) MessageBody { return MessageBody{Message: msg} }

// Fail aborts with status and an error body.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// Abort writes err as an error body. Domain errors carry their own message
// and status; anything else is recorded in c.Errors and reported as a 500,
// or a 504 when the request deadline passed.
func Abort(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		Fail(c, StatusOf(de.Kind), de.Msg)
		return
	}
	_ = c.Error(err)
	if errors.Is(err, context.DeadlineExceeded) {
		Fail(c, http.StatusGatewayTimeout, MsgTimeout)
		return
	}
	Fail(c, http.StatusInternalServerError, MsgInternal)
}
