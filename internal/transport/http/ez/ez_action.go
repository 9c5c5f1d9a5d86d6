// Package ez registers typed gin handlers: bind the JSON body into I, call the
// handler, write O or map the error to a status.
package ez

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "roombooking/internal/transport/http/response"
)

// Empty is the input of actions that read nothing from the body.
type Empty struct{}

type Action[I any, O any] struct {
	Method string
	Path   string
	// Status on success, 200 when zero.
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

// Register mounts a on r.
func Register[I any, O any](r gin.IRoutes, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	r.Handle(a.Method, a.Path, func(c *gin.Context) {
		in := new(I)
		if _, empty := any(in).(*Empty); !empty {
			if err := bindJSON(c, in); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					resp.Fail(c, http.StatusRequestEntityTooLarge, resp.MsgTooLarge)
					return
				}
				resp.Fail(c, http.StatusBadRequest, resp.MsgInvalidJSON)
				return
			}
		}
		out, err := a.Handler(c, in)
		if err != nil {
			resp.Abort(c, err)
			return
		}
		c.JSON(status, out)
	})
}

// An absent body binds as {} so the handler can report the missing fields.
func bindJSON(c *gin.Context, in any) error {
	err := c.ShouldBindJSON(in)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func GET[I any, O any](r gin.IRoutes, path string, h func(*gin.Context, *I) (O, error)) {
	Register(r, Action[I, O]{Method: http.MethodGet, Path: path, Handler: h})
}

func POST[I any, O any](r gin.IRoutes, path string, h func(*gin.Context, *I) (O, error)) {
	Register(r, Action[I, O]{Method: http.MethodPost, Path: path, Handler: h})
}

func PATCH[I any, O any](r gin.IRoutes, path string, h func(*gin.Context, *I) (O, error)) {
	Register(r, Action[I, O]{Method: http.MethodPatch, Path: path, Handler: h})
}

func DELETE[I any, O any](r gin.IRoutes, path string, h func(*gin.Context, *I) (O, error)) {
	Register(r, Action[I, O]{Method: http.MethodDelete, Path: path, Handler: h})
}
