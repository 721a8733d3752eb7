// Package user keeps the mock signed-in identity. There are no passwords
// and nothing is verified; the identity only labels reviews.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tradelink/database/kv"
	"tradelink/models"
	"tradelink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultKey = "tradelink:user"

var ErrInvalidEmail = errors.New("a valid email is required")

type UserService interface {
	SignIn(ctx context.Context, name, email string) (*models.CurrentUser, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*models.CurrentUser, error)
}

// DefaultUserService stores the single current user under one key.
type DefaultUserService struct {
	kv     kv.Store
	key    string
	logger *zap.Logger
}

func NewUserService(store kv.Store, key string, logger *zap.Logger) *DefaultUserService {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultUserService{kv: store, key: key, logger: logger}
}

// SignIn replaces the current user. A missing name is taken from the
// local part of the email.
func (s *DefaultUserService) SignIn(ctx context.Context, name, email string) (*models.CurrentUser, error) {
	email = strings.TrimSpace(email)
	if !utils.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}

	u := models.CurrentUser{ID: uuid.New().String(), Name: name, Email: email}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	s.logger.Info("User signed in", zap.String("id", u.ID), zap.String("email", u.Email))
	return &u, nil
}

func (s *DefaultUserService) SignOut(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	return nil
}

// Current returns the stored user, or nil when nobody is signed in or the
// stored value is unreadable.
func (s *DefaultUserService) Current(ctx context.Context) (*models.CurrentUser, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	var u models.CurrentUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.logger.Warn("Stored user is corrupt, treating as signed out", zap.String("key", s.key))
		return nil, nil
	}
	return &u, nil
}
