package user

import (
	"context"
	"time"

	userRepo "tablebook/database/repository/user"
	"tablebook/models"
	"tablebook/utils"
)

// UserService covers sign-in from the mini app and the profile mutations the gate reacts to.
type UserService interface {
	// AuthenticateTelegram verifies the launch parameters, upserts the user and issues a token
	// bound to a fresh launch session.
	AuthenticateTelegram(ctx context.Context, initData string) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	// UpdatePhone normalises the number to +7XXXXXXXXXX before saving it.
	UpdatePhone(ctx context.Context, userID, phone string) (*models.User, error)
	CompleteOnboarding(ctx context.Context, userID string) (*models.User, error)
	SignOut(ctx context.Context, sessionID string) error
}

// AuthSessionStore records which token belongs to a launch session.
type AuthSessionStore interface {
	Save(ctx context.Context, sessionID string, session utils.AuthSession, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Sessions AuthSessionStore

	BotToken       string
	InitDataMaxAge time.Duration
	TokenTTL       time.Duration

	Now          func() time.Time
	NewSessionID func() string
}
