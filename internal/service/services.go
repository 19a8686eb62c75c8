package service

import (
	"github.com/dom/identity-service/internal/config"
	"github.com/dom/identity-service/internal/repository"
	"github.com/dom/identity-service/internal/token"
)

type Services struct {
	Auth *AuthService
}

func NewServices(repos *repository.Repositories, codec *token.Codec, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, repos.AuthEvent, codec, cfg),
	}
}
