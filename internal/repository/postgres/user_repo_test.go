package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/identity-service/internal/domain"
	"github.com/dom/identity-service/internal/repository/postgres"
	"github.com/dom/identity-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr bool
	}{
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				FirstName:    "John",
				LastName:     "Doe",
				Email:        "john@example.com",
				PasswordHash: "hashedpassword",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: false,
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				FirstName:    "Jane",
				LastName:     "Doe",
				Email:        "john@example.com", // Same as above
				PasswordHash: "hashedpassword2",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	// Create a test user
	user, _ := testutil.NewUserBuilder().
		WithEmail("getbyid@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		id      uuid.UUID
		want    *domain.User
		wantErr bool
	}{
		{
			name:    "existing user",
			id:      user.ID,
			want:    user,
			wantErr: false,
		},
		{
			name:    "non-existent user",
			id:      uuid.New(),
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Email, got.Email)
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	// Create a test user
	user, _ := testutil.NewUserBuilder().
		WithEmail("byemail@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		email   string
		want    *domain.User
		wantErr bool
	}{
		{
			name:    "existing user",
			email:   "byemail@example.com",
			want:    user,
			wantErr: false,
		},
		{
			name:    "non-existent user",
			email:   "nobody@example.com",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByEmail(ctx, tt.email)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Email, got.Email)
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	// Create a test user
	user, _ := testutil.NewUserBuilder().
		WithEmail("update@example.com").
		Build(t, testDB.DB)

	// Update the user
	now := time.Now()
	refresh := "some-refresh-token"
	user.RefreshToken = &refresh
	user.LastLoginAt = &now
	err := repo.Update(ctx, user)
	require.NoError(t, err)

	// Verify the update
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, refresh, *got.RefreshToken)
	require.NotNil(t, got.LastLoginAt)
}

func TestUserRepository_UpdateRefreshToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("partial@example.com").
		Build(t, testDB.DB)

	// Set the token without touching any other column
	refresh := "stored-refresh-token"
	err := repo.UpdateRefreshToken(ctx, user.ID, &refresh)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, refresh, *got.RefreshToken)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)

	// Clearing with nil removes the stored token
	err = repo.UpdateRefreshToken(ctx, user.ID, nil)
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)

	// Clearing a user with no stored token succeeds silently
	err = repo.UpdateRefreshToken(ctx, user.ID, nil)
	require.NoError(t, err)
}
