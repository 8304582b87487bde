package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "tablebook/database/repository/user"
	"tablebook/models"
	"tablebook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTokenTTL = 24 * time.Hour

var _ UserService = (*DefaultUserService)(nil)

func (s *DefaultUserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultUserService) newSessionID() string {
	if s.NewSessionID != nil {
		return s.NewSessionID()
	}
	return uuid.NewString()
}

func mapRepoError(err error) error {
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// AuthenticateTelegram signs the user in from the mini-app launch parameters.
func (s *DefaultUserService) AuthenticateTelegram(ctx context.Context, initData string) (*models.AuthResponse, error) {
	data, err := utils.ParseInitData(initData, s.BotToken, s.InitDataMaxAge, s.now())
	if err != nil {
		utils.GetLogger().Warn("Rejected telegram init data", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	user, err := s.Repo.UpsertTelegramUser(ctx, &models.User{
		TelegramID:   data.User.ID,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		Username:     data.User.Username,
		LanguageCode: data.User.LanguageCode,
	})
	if err != nil {
		utils.GetLogger().Error("Failed to upsert telegram user", zap.Int64("telegramID", data.User.ID), zap.Error(err))
		return nil, err
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	sessionID := s.newSessionID()
	token, expiresAt, err := utils.GenerateToken(user.ID, sessionID, ttl)
	if err != nil {
		utils.GetLogger().Error("Failed to generate auth token", zap.Error(err))
		return nil, err
	}

	if s.Sessions != nil {
		session := utils.AuthSession{
			UserID:     user.ID,
			TelegramID: user.TelegramID,
			TokenHash:  utils.HashToken(token),
			CreatedAt:  s.now(),
		}
		if err := s.Sessions.Save(ctx, sessionID, session, ttl); err != nil {
			utils.GetLogger().Error("Failed to store auth session", zap.String("sessionID", sessionID), zap.Error(err))
			return nil, err
		}
	}

	utils.GetLogger().Info("User signed in",
		zap.String("userID", user.ID),
		zap.String("sessionID", sessionID),
		zap.String("startParam", data.StartParam),
	)
	return &models.AuthResponse{
		Auth:       models.Auth{AccessToken: token, ExpiresAt: expiresAt},
		SessionID:  sessionID,
		StartParam: data.StartParam,
		User:       user,
	}, nil
}

// GetProfile returns the stored profile.
func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

// UpdatePhone validates, normalises and stores the phone number.
func (s *DefaultUserService) UpdatePhone(ctx context.Context, userID, phone string) (*models.User, error) {
	normalized, ok := NormalizePhone(phone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	user, err := s.Repo.SetPhone(ctx, userID, normalized)
	if err != nil {
		utils.GetLogger().Error("Failed to update phone", zap.String("userID", userID), zap.Error(err))
		return nil, mapRepoError(err)
	}
	return user, nil
}

// CompleteOnboarding marks onboarding as finished.
func (s *DefaultUserService) CompleteOnboarding(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.CompleteOnboarding(ctx, userID)
	if err != nil {
		utils.GetLogger().Error("Failed to complete onboarding", zap.String("userID", userID), zap.Error(err))
		return nil, mapRepoError(err)
	}
	return user, nil
}

// SignOut drops the launch session; its token stops being accepted.
func (s *DefaultUserService) SignOut(ctx context.Context, sessionID string) error {
	if s.Sessions == nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		utils.GetLogger().Error("Failed to delete auth session", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	return nil
}
