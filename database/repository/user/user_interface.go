package userRepo

import (
	"context"
	"errors"

	"tablebook/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByTelegramID retrieves the user bound to a Telegram account.
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	// UpsertTelegramUser creates the user on first sign-in and refreshes the Telegram
	// profile fields on later ones. Phone and onboarding state are never touched.
	UpsertTelegramUser(ctx context.Context, user *models.User) (*models.User, error)
	// SetPhone stores a normalised phone number.
	SetPhone(ctx context.Context, id, phone string) (*models.User, error)
	// CompleteOnboarding marks onboarding as done.
	CompleteOnboarding(ctx context.Context, id string) (*models.User, error)
}
