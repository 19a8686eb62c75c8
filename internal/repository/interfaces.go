package repository

import (
	"context"

	"github.com/dom/identity-service/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// UpdateRefreshToken writes only the refresh_token column. A nil value
	// clears the stored token.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken *string) error
}

type AuthEventRepository interface {
	Create(ctx context.Context, event *domain.AuthEvent) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AuthEvent, error)
}

type Repositories struct {
	User      UserRepository
	AuthEvent AuthEventRepository
}
