package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/identity-service/internal/domain"
	"github.com/dom/identity-service/internal/repository"
	"github.com/dom/identity-service/internal/token"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type contextKey string

const (
	userKey   contextKey = "authUser"
	tokenKey  contextKey = "authToken"
	claimsKey contextKey = "authClaims"
)

var errNotAuthenticated = errors.New("not authenticated")

// Auth requires a valid access token. Any failure to authenticate halts
// the request with 401; storage outages surface as 500.
func Auth(codec *token.Codec, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, codec, users)
			if err != nil {
				if errors.Is(err, errNotAuthenticated) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				log.Error().Err(err).Msg("auth middleware: user lookup failed")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user when a valid access token is present and
// otherwise lets the request continue anonymously.
func OptionalAuth(codec *token.Codec, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, codec, users)
			if err != nil {
				if errors.Is(err, errNotAuthenticated) {
					next.ServeHTTP(w, r)
					return
				}
				log.Error().Err(err).Msg("optional auth middleware: user lookup failed")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate runs the shared gate procedure: extract the bearer token,
// verify it, require the access kind, load the user, and build a request
// context carrying all three.
func authenticate(r *http.Request, codec *token.Codec, users repository.UserRepository) (context.Context, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, errNotAuthenticated
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		return nil, errNotAuthenticated
	}

	// A refresh token never grants request authorization.
	if claims.Kind != token.KindAccess {
		return nil, errNotAuthenticated
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, errNotAuthenticated
	}

	user, err := users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotAuthenticated
		}
		return nil, err
	}

	ctx := context.WithValue(r.Context(), userKey, user)
	ctx = context.WithValue(ctx, tokenKey, raw)
	ctx = context.WithValue(ctx, claimsKey, claims)
	return ctx, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Extra whitespace between scheme and token is tolerated; a header
// holding only the scheme is treated as absent.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return "", false
	}
	return fields[1], true
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

func GetToken(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenKey).(string)
	return raw, ok
}

func GetClaims(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}
