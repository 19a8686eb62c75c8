package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName       string         `json:"firstName" gorm:"not null"`
	LastName        string         `json:"lastName" gorm:"not null"`
	Email           string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash    string         `json:"-" gorm:"not null"`
	IsEmailVerified bool           `json:"isEmailVerified" gorm:"not null;default:false"`
	RefreshToken    *string        `json:"-"`
	LastLoginAt     *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// PublicUser is the client-safe projection of a User. It never carries the
// password hash or the stored refresh token.
type PublicUser struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}

const (
	minNameLength     = 2
	minPasswordLength = 8
)

// NormalizeEmail lowercases and trims an email so lookups and the unique
// index behave case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func ValidateRegistration(firstName, lastName, email, password string) error {
	if len(strings.TrimSpace(firstName)) < minNameLength {
		return ErrFirstNameTooShort
	}
	if len(strings.TrimSpace(lastName)) < minNameLength {
		return ErrLastNameTooShort
	}
	if err := ValidateEmail(NormalizeEmail(email)); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func ValidateLogin(email, password string) error {
	if err := ValidateEmail(NormalizeEmail(email)); err != nil {
		return err
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}
