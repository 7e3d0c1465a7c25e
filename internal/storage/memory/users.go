// Package memory реализует хранилища пользователей и счетов в памяти процесса.
//
// Данные живут только до перезапуска. Хранилища закрыты интерфейсами
// на уровне сервисов, поэтому замена на долговременное хранилище
// не затрагивает бизнес-логику; инварианты уникальности и владения
// должны сохраниться при любой реализации.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// UserStore хранит пользователей, ключ — email.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewUserStore создает пустое хранилище пользователей.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*models.User),
	}
}

// CreateUser сохраняет нового пользователя.
//
// Возвращает apperrors.ErrUserExists, если email уже занят,
// и apperrors.ErrMobileUsed, если номер телефона уже использовался
// для пробного периода — даже с другим email.
func (s *UserStore) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.memory.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return fmt.Errorf("%s: %w", op, apperrors.ErrUserExists)
	}
	for _, u := range s.users {
		if u.Mobile == user.Mobile {
			return fmt.Errorf("%s: %w", op, apperrors.ErrMobileUsed)
		}
	}
	s.users[user.Email] = &user
	return nil
}

// GetUserByEmail возвращает пользователя по email.
//
// Возвращает apperrors.ErrUserNotFound, если такого пользователя нет.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
	}
	copied := *u
	return &copied, nil
}

// SetSubscribed помечает пользователя подписанным.
// Флаг меняется только с false на true и обратно не сбрасывается.
func (s *UserStore) SetSubscribed(ctx context.Context, email string) error {
	const op = "storage.memory.SetSubscribed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
	}
	u.Subscribed = true
	return nil
}
