package postgres

import (
	"context"

	"github.com/dom/identity-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type authEventRepository struct {
	db *gorm.DB
}

func NewAuthEventRepository(db *gorm.DB) *authEventRepository {
	return &authEventRepository{db: db}
}

func (r *authEventRepository) Create(ctx context.Context, event *domain.AuthEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *authEventRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AuthEvent, error) {
	var events []*domain.AuthEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
