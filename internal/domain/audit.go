package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Auth lifecycle actions recorded in the audit trail.
const (
	AuthEventRegister        = "auth.register"
	AuthEventLogin           = "auth.login"
	AuthEventLoginFailed     = "auth.login_failed"
	AuthEventRefresh         = "auth.refresh"
	AuthEventLogout          = "auth.logout"
	AuthEventPasswordChanged = "auth.password_changed"
)

type AuthEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    *uuid.UUID     `json:"userId" gorm:"type:uuid;index"`
	Action    string         `json:"action" gorm:"not null;index"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}
