package service

import (
	"errors"

	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/pkg/jwt"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type authService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, log: log}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		s.log.Warn("login rejected", zap.String("email", email), zap.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("login rejected", zap.String("email", email), zap.String("reason", "inactive account"))
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		s.log.Warn("login rejected", zap.String("email", email), zap.String("reason", "bad password"))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info("user logged in", zap.String("email", user.Email), zap.String("role", user.Role))

	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	if err := s.users.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}

	s.log.Info("password changed", zap.Uint("user_id", user.ID))
	return nil
}
