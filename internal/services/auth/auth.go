// Package services содержит логику бизнес-уровня для регистрации и аутентификации пользователей.
package services

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/clock"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/jwt"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/password"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
	"github.com/magabrotheeeer/invoicing-saas/internal/services/trial"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя, проверяя уникальность email и телефона.
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// LoginResult содержит данные успешной авторизации для ответа клиенту.
type LoginResult struct {
	Token        string
	User         *models.User
	TrialExpired bool
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	policy   *trial.Policy
	clock    clock.Clock
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, policy *trial.Policy, clk clock.Clock) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		policy:   policy,
		clock:    clk,
	}
}

// Register создает нового пользователя с хэшированием пароля.
//
// Дата начала пробного периода фиксируется в момент регистрации и далее
// не меняется. Email и номер телефона должны быть уникальны, нарушение
// возвращается как apperrors.ErrUserExists или apperrors.ErrMobileUsed.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, mobile string) error {
	const op = "services.auth.Register"
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		Mobile:       mobile,
		TrialStart:   s.clock.Now().UTC(),
		Subscribed:   false,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login проверяет пароль пользователя и генерирует JWT.
//
// Неизвестный email и неверный пароль возвращаются одной и той же ошибкой
// apperrors.ErrInvalidCredentials. Истёкший пробный период входу не мешает:
// пользователь должен иметь возможность войти и оформить подписку.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{
		Token:        token,
		User:         user,
		TrialExpired: s.policy.IsExpired(user),
	}, nil
}

// ValidateToken проверяет JWT и возвращает учётную запись пользователя.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
	}
	user, err := s.users.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
	}
	return user, nil
}
