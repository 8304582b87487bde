package gate

import (
	"context"
	"fmt"
	"sync"

	"tablebook/models"

	"go.uber.org/zap"
)

// StateStore persists gate state per launch session.
type StateStore interface {
	Load(ctx context.Context, sessionID string) (models.GateState, error)
	Save(ctx context.Context, sessionID string, state models.GateState) error
}

// ProfileLoader returns the current profile, or nil when it cannot be loaded yet.
type ProfileLoader interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// GateService evaluates the redirect gate for a launch session.
type GateService interface {
	Evaluate(ctx context.Context, sessionID, userID string, in models.GateInput) (models.GateResult, error)
}

// DefaultGateService implements GateService.
type DefaultGateService struct {
	Store  StateStore
	Users  ProfileLoader
	Logger *zap.Logger

	locks sync.Map
}

// NewDefaultGateService wires a gate service.
func NewDefaultGateService(store StateStore, users ProfileLoader, logger *zap.Logger) *DefaultGateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultGateService{Store: store, Users: users, Logger: logger}
}

func (s *DefaultGateService) lock(sessionID string) func() {
	m, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Evaluate loads the session's gate state, runs the checks and stores the result.
// A profile that fails to load is treated as not loaded yet.
func (s *DefaultGateService) Evaluate(ctx context.Context, sessionID, userID string, in models.GateInput) (models.GateResult, error) {
	if sessionID == "" {
		return models.GateResult{}, fmt.Errorf("gate: empty session id")
	}
	unlock := s.lock(sessionID)
	defer unlock()

	state, err := s.Store.Load(ctx, sessionID)
	if err != nil {
		return models.GateResult{}, fmt.Errorf("gate: load state: %w", err)
	}

	in.Authenticated = userID != ""
	in.User = nil
	if in.Authenticated && s.Users != nil {
		user, err := s.Users.GetProfile(ctx, userID)
		if err != nil {
			s.Logger.Warn("gate: profile not available, skipping session checks",
				zap.String("userID", userID), zap.Error(err))
		} else {
			in.User = user
		}
	}

	g := New(state)
	result := g.Evaluate(in)

	if err := s.Store.Save(ctx, sessionID, g.State()); err != nil {
		return models.GateResult{}, fmt.Errorf("gate: save state: %w", err)
	}

	if result.Navigate {
		s.Logger.Debug("gate: redirect",
			zap.String("sessionID", sessionID),
			zap.String("from", in.Path),
			zap.String("to", result.Path),
			zap.String("reason", string(result.Reason)),
		)
	}
	return result, nil
}
