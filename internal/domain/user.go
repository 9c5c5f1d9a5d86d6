package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleUser  Role = "user"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleOwner, RoleUser}

func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RoleSet is the set of roles a route accepts.
type RoleSet []Role

func (s RoleSet) Allows(r Role) bool {
	for _, want := range s {
		if want == r {
			return true
		}
	}
	return false
}

func (s RoleSet) String() string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, " or ")
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUser is the unauthenticated projection of a user.
type PublicUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
