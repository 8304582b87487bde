package booking

import (
	"context"
	"sync"
	"time"

	"tablebook/models"
	"tablebook/services/backend"

	"go.uber.org/zap"
)

// BookingSessionService manages booking forms on behalf of authenticated users.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, userID string, auth models.Auth, req models.InitiateBookingRequest) (*models.BookingSnapshot, error)
	GetSession(ctx context.Context, userID, sessionID string) (*models.BookingSnapshot, error)
	UpdateSession(ctx context.Context, userID string, auth models.Auth, sessionID string, update models.BookingSessionUpdate) (*models.BookingSnapshot, error)
	RetrySlots(ctx context.Context, userID string, auth models.Auth, sessionID string) (*models.BookingSnapshot, error)
	SelectPartition(ctx context.Context, userID, sessionID string, partition models.Partition) (*models.BookingSnapshot, error)
	DismissPopup(ctx context.Context, userID, sessionID string) (*models.BookingSnapshot, error)
	Submit(ctx context.Context, userID string, auth models.Auth, sessionID string) (*models.SubmitResult, error)
	CancelSession(ctx context.Context, userID, sessionID string) error
}

// SessionStore persists form snapshots so that a session survives a restart.
// Load returns nil, nil when nothing is stored.
type SessionStore interface {
	Save(ctx context.Context, snap models.BookingSnapshot) error
	Load(ctx context.Context, sessionID string) (*models.BookingSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// ProfileLoader returns the user's current profile.
type ProfileLoader interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// Notifier tells the guest about a created booking.
type Notifier interface {
	SendBookingCreated(ctx context.Context, notice models.BookingNotice) error
}

// ReminderScheduler enqueues a reminder to be delivered at the given time.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, notice models.BookingNotice, at time.Time) error
}

// DefaultBookingSessionService is the production implementation.
type DefaultBookingSessionService struct {
	API       backend.BookingAPI
	Store     SessionStore
	Users     ProfileLoader
	Notifier  Notifier
	Reminders ReminderScheduler
	Logger    *zap.Logger

	// Options is the template for new orchestrators.
	Options      Options
	SessionTTL   time.Duration
	ReminderLead time.Duration
	NewID        func() string

	mu       sync.Mutex
	sessions map[string]*Orchestrator
}
