package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"roombooking/internal/domain"
)

type echoIn struct {
	Name string `json:"name"`
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name}, nil
		},
	})
	GET(r, "/fail/:kind", func(c *gin.Context, _ *Empty) (gin.H, error) {
		if c.Param("kind") == "domain" {
			return nil, domain.ErrBookingNotFound
		}
		return nil, errors.New("db exploded")
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterBindsAndWritesStatus(t *testing.T) {
	w := do(newEngine(), http.MethodPost, "/echo", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"Ada"}`, w.Body.String())
}

func TestRegisterEmptyBodyBindsZeroValue(t *testing.T) {
	w := do(newEngine(), http.MethodPost, "/echo", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":""}`, w.Body.String())
}

func TestRegisterMalformedJSON(t *testing.T) {
	w := do(newEngine(), http.MethodPost, "/echo", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Request body must be valid JSON"}`, w.Body.String())
}

func TestRegisterMapsErrors(t *testing.T) {
	w := do(newEngine(), http.MethodGet, "/fail/domain", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Booking not found"}`, w.Body.String())

	w = do(newEngine(), http.MethodGet, "/fail/other", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "exploded")
}
