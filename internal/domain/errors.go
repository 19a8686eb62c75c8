package domain

import "errors"

// User validation errors
var (
	ErrFirstNameTooShort = errors.New("first name must be at least 2 characters")
	ErrLastNameTooShort  = errors.New("last name must be at least 2 characters")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordRequired  = errors.New("password is required")
)
