package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry only the subject. The role is always read from the store.
type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid subject")
	}
	return id, nil
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(uid int64) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(j.TTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(uid, 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	return s, exp, err
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
