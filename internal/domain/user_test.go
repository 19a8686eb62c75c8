package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dom/identity-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		email     string
		password  string
		wantErr   error
	}{
		{
			name:      "valid input",
			firstName: "John",
			lastName:  "Doe",
			email:     "john@example.com",
			password:  "password123",
		},
		{
			name:      "first name too short",
			firstName: "J",
			lastName:  "Doe",
			email:     "john@example.com",
			password:  "password123",
			wantErr:   domain.ErrFirstNameTooShort,
		},
		{
			name:      "first name only whitespace",
			firstName: "   ",
			lastName:  "Doe",
			email:     "john@example.com",
			password:  "password123",
			wantErr:   domain.ErrFirstNameTooShort,
		},
		{
			name:      "last name too short",
			firstName: "John",
			lastName:  "D",
			email:     "john@example.com",
			password:  "password123",
			wantErr:   domain.ErrLastNameTooShort,
		},
		{
			name:      "invalid email",
			firstName: "John",
			lastName:  "Doe",
			email:     "not-an-email",
			password:  "password123",
			wantErr:   domain.ErrInvalidEmail,
		},
		{
			name:      "email with display name",
			firstName: "John",
			lastName:  "Doe",
			email:     "John Doe <john@example.com>",
			password:  "password123",
			wantErr:   domain.ErrInvalidEmail,
		},
		{
			name:      "password too short",
			firstName: "John",
			lastName:  "Doe",
			email:     "john@example.com",
			password:  "1234567",
			wantErr:   domain.ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateRegistration(tt.firstName, tt.lastName, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, domain.ValidateLogin("john@example.com", "anything"))
	assert.ErrorIs(t, domain.ValidateLogin("not-an-email", "anything"), domain.ErrInvalidEmail)
	assert.ErrorIs(t, domain.ValidateLogin("john@example.com", ""), domain.ErrPasswordRequired)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", domain.NormalizeEmail("  John@Example.COM "))
	assert.Equal(t, "john@example.com", domain.NormalizeEmail("john@example.com"))
}

func TestUser_PublicStripsSecrets(t *testing.T) {
	refresh := "stored-refresh-token"
	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    "John",
		LastName:     "Doe",
		Email:        "john@example.com",
		PasswordHash: "$2a$10$somethinghashed",
		RefreshToken: &refresh,
		LastLoginAt:  &now,
	}

	public := user.Public()
	assert.Equal(t, user.ID, public.ID)
	assert.Equal(t, user.Email, public.Email)

	raw, err := json.Marshal(public)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "passwordHash")
	assert.NotContains(t, fields, "refreshToken")
}
