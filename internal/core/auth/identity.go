package auth

import (
	"net/http"
	"strings"

	"roombooking/internal/domain"
	"roombooking/pkg/utils"
)

// IdentitySource extracts the caller's user id from a request. It never
// decides the role; that is looked up by the gate.
type IdentitySource interface {
	Identify(r *http.Request) (int64, error)
}

const DefaultHeader = "user-id"

// HeaderIdentity trusts a plain numeric header.
type HeaderIdentity struct {
	Header string
}

func (h HeaderIdentity) Identify(r *http.Request) (int64, error) {
	name := h.Header
	if name == "" {
		name = DefaultHeader
	}
	raw := strings.TrimSpace(r.Header.Get(name))
	if raw == "" {
		return 0, domain.ErrMissingIdentifier.WithMsg("Missing " + name)
	}
	id, err := utils.ParseID(raw)
	if err != nil {
		return 0, domain.ErrInvalidIdentifier.WithMsg(name + " must be number")
	}
	return id, nil
}

// BearerIdentity verifies a signed token and returns its subject.
type BearerIdentity struct {
	JWT *JWTer
}

func (b BearerIdentity) Identify(r *http.Request) (int64, error) {
	ah := r.Header.Get("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return 0, domain.ErrMissingIdentifier.WithMsg("Missing bearer token")
	}
	claims, err := b.JWT.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
	if err != nil {
		return 0, domain.ErrInvalidCredential
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, domain.ErrInvalidCredential
	}
	return id, nil
}
