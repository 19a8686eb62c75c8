package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dom/identity-service/internal/config"
	"github.com/dom/identity-service/internal/domain"
	"github.com/dom/identity-service/internal/repository"
	"github.com/dom/identity-service/internal/token"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

type AuthService struct {
	userRepo  repository.UserRepository
	eventRepo repository.AuthEventRepository
	codec     *token.Codec
	cfg       *config.Config
}

func NewAuthService(userRepo repository.UserRepository, eventRepo repository.AuthEventRepository, codec *token.Codec, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		codec:     codec,
		cfg:       cfg,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := domain.ValidateRegistration(input.FirstName, input.LastName, input.Email, input.Password); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	// Check if email is already registered
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	// Second write: persist the refresh token on the new user.
	user.RefreshToken = &result.RefreshToken
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, user.RefreshToken); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, domain.AuthEventRegister, &user.ID, map[string]any{"email": user.Email})

	return result, nil
}

// Login verifies credentials and issues a fresh token pair. The stored
// refresh token is overwritten, invalidating any previous session; two
// concurrent logins for the same user race last-write-wins.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := domain.ValidateLogin(input.Email, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	email := domain.NormalizeEmail(input.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password; do not reveal whether the
			// email is registered.
			s.recordEvent(ctx, domain.AuthEventLoginFailed, nil, map[string]any{"email": email, "reason": "unknown email"})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.VerifyPassword(user, input.Password); err != nil {
		s.recordEvent(ctx, domain.AuthEventLoginFailed, &user.ID, map[string]any{"reason": "wrong password"})
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.RefreshToken = &result.RefreshToken
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, domain.AuthEventLogin, &user.ID, nil)

	return result, nil
}

// Refresh exchanges a valid refresh token for a new access token. Only the
// token currently stored on the user is honored; superseded tokens are
// rejected even when cryptographically valid. The refresh token itself is
// not rotated here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if claims.Kind != token.KindRefresh {
		return "", ErrInvalidRefreshToken
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.codec.Issue(user.ID, user.Email, token.KindAccess)
	if err != nil {
		return "", err
	}

	s.recordEvent(ctx, domain.AuthEventRefresh, &user.ID, nil)

	return accessToken, nil
}

// Logout clears the stored refresh token. Idempotent: logging out twice or
// without an active session succeeds silently.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return err
	}

	s.recordEvent(ctx, domain.AuthEventLogout, &userID, nil)

	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.VerifyPassword(user, currentPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.recordEvent(ctx, domain.AuthEventPasswordChanged, &user.ID, nil)

	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// VerifyPassword compares a candidate plaintext against the stored hash.
func (s *AuthService) VerifyPassword(user *domain.User, candidate string) error {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate))
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *AuthService) issueTokenPair(user *domain.User) (*AuthResult, error) {
	accessToken, err := s.codec.Issue(user.ID, user.Email, token.KindAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.codec.Issue(user.ID, user.Email, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// recordEvent writes an audit entry. Best-effort: failures are logged and
// never fail the auth operation.
func (s *AuthService) recordEvent(ctx context.Context, action string, userID *uuid.UUID, meta map[string]any) {
	event := &domain.AuthEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now(),
	}

	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			event.Metadata = datatypes.JSON(b)
		}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to record auth event")
	}
}
