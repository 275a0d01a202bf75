package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/auth"
	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
)

// UserService manages user profiles.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserMissing
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfileParams are the editable profile fields. Nil pointers leave
// the current value untouched.
type UpdateProfileParams struct {
	DisplayName *string
	Password    *string
}

// UpdateProfile edits the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.DisplayName != nil {
		if *params.DisplayName == "" {
			return nil, domainerrors.Validation("Display name cannot be empty")
		}
		user.DisplayName = *params.DisplayName
	}
	if params.Password != nil {
		if len(*params.Password) < minPasswordLength {
			return nil, domainerrors.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
		}
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}
