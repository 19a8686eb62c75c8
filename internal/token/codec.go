package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, or expiry. Callers only branch on failure vs success.
var ErrInvalidToken = errors.New("invalid token")

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Kind  Kind   `json:"typ"`
}

func (c *Claims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Codec issues and verifies signed session tokens. Access and refresh
// tokens share the signing secret but carry distinct lifetimes and a kind
// discriminator.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (c *Codec) Issue(subjectID uuid.UUID, email string, kind Kind) (string, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Kind:  kind,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeUnsafe parses the claims without checking the signature or expiry.
// Inspection only; never use the result for authorization decisions.
func (c *Codec) DecodeUnsafe(tokenString string) (*Claims, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, false
	}
	return claims, true
}
