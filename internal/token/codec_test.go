package token_test

import (
	"testing"
	"time"

	"github.com/dom/identity-service/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key-for-testing-only"

func newTestCodec() *token.Codec {
	return token.NewCodec(testSecret, time.Hour, 7*24*time.Hour)
}

func TestCodec_IssueVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec()
	subjectID := uuid.New()
	email := "john@example.com"

	tests := []struct {
		name string
		kind token.Kind
	}{
		{name: "access token", kind: token.KindAccess},
		{name: "refresh token", kind: token.KindRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := codec.Issue(subjectID, email, tt.kind)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := codec.Verify(tokenString)
			require.NoError(t, err)

			gotID, err := claims.SubjectID()
			require.NoError(t, err)
			assert.Equal(t, subjectID, gotID)
			assert.Equal(t, email, claims.Email)
			assert.Equal(t, tt.kind, claims.Kind)
		})
	}
}

func TestCodec_VerifyRejectsExpired(t *testing.T) {
	expired := token.NewCodec(testSecret, -time.Minute, -time.Minute)

	tokenString, err := expired.Issue(uuid.New(), "john@example.com", token.KindAccess)
	require.NoError(t, err)

	_, err = expired.Verify(tokenString)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_VerifyRejectsWrongSecret(t *testing.T) {
	codec := newTestCodec()
	other := token.NewCodec("a-completely-different-secret", time.Hour, time.Hour)

	tokenString, err := other.Issue(uuid.New(), "john@example.com", token.KindAccess)
	require.NoError(t, err)

	_, err = codec.Verify(tokenString)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_VerifyRejectsGarbage(t *testing.T) {
	codec := newTestCodec()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "notavalidjwt"},
		{name: "truncated jwt", token: "invalid.token.here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			assert.ErrorIs(t, err, token.ErrInvalidToken)
		})
	}
}

func TestCodec_DecodeUnsafe(t *testing.T) {
	codec := newTestCodec()
	subjectID := uuid.New()

	// Expired tokens still decode; DecodeUnsafe skips signature and expiry.
	expired := token.NewCodec(testSecret, -time.Minute, -time.Minute)
	tokenString, err := expired.Issue(subjectID, "john@example.com", token.KindRefresh)
	require.NoError(t, err)

	claims, ok := codec.DecodeUnsafe(tokenString)
	require.True(t, ok)
	assert.Equal(t, "john@example.com", claims.Email)
	assert.Equal(t, token.KindRefresh, claims.Kind)

	_, ok = codec.DecodeUnsafe("not a token at all")
	assert.False(t, ok)
}
