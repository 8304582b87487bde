package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablebook/models"
	"tablebook/services/backend"
	"tablebook/services/timeslot"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSessionTTL = 30 * time.Minute

var _ BookingSessionService = (*DefaultBookingSessionService)(nil)

// NewDefaultBookingSessionService wires a session service. Notifier and Reminders may be nil.
func NewDefaultBookingSessionService(
	api backend.BookingAPI,
	store SessionStore,
	users ProfileLoader,
	notifier Notifier,
	reminders ReminderScheduler,
	opts Options,
	sessionTTL, reminderLead time.Duration,
) *DefaultBookingSessionService {
	opts = opts.withDefaults()
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &DefaultBookingSessionService{
		API:          api,
		Store:        store,
		Users:        users,
		Notifier:     notifier,
		Reminders:    reminders,
		Logger:       opts.Logger,
		Options:      opts,
		SessionTTL:   sessionTTL,
		ReminderLead: reminderLead,
		NewID:        uuid.NewString,
		sessions:     make(map[string]*Orchestrator),
	}
}

func (s *DefaultBookingSessionService) register(o *Orchestrator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[o.ID()] = o
}

func (s *DefaultBookingSessionService) forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *DefaultBookingSessionService) persist(ctx context.Context, o *Orchestrator) models.BookingSnapshot {
	snap := o.Snapshot()
	if err := s.Store.Save(ctx, snap); err != nil {
		s.Logger.Warn("failed to persist booking session", zap.String("sessionID", snap.SessionID), zap.Error(err))
	}
	return snap
}

// lookup returns the live orchestrator for a session, rehydrating it from the store if needed.
func (s *DefaultBookingSessionService) lookup(ctx context.Context, userID, sessionID string) (*Orchestrator, error) {
	s.mu.Lock()
	o, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if ok {
		if o.UserID() != userID {
			return nil, ErrForbidden
		}
		if s.Options.Clock.Now().Sub(o.Snapshot().UpdatedAt) > s.SessionTTL {
			o.Close()
			s.forget(sessionID)
			return nil, ErrSessionNotFound
		}
		return o, nil
	}

	snap, err := s.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load booking session %s: %w", sessionID, err)
	}
	if snap == nil {
		return nil, ErrSessionNotFound
	}
	if snap.UserID != userID {
		return nil, ErrForbidden
	}

	o = RestoreOrchestrator(*snap, s.API, s.Options)
	if user, err := s.Users.GetProfile(ctx, userID); err == nil {
		o.SetUser(user)
	} else {
		s.Logger.Warn("profile not available for restored session", zap.String("userID", userID), zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sessionID]; ok {
		// Another request restored it first.
		return existing, nil
	}
	s.sessions[sessionID] = o
	s.Logger.Info("booking session restored", zap.String("sessionID", sessionID))
	return o, nil
}

// InitiateSession opens a new form seeded from the user's profile and the given presets,
// claims a carried certificate and starts the dependent loads.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, userID string, auth models.Auth, req models.InitiateBookingRequest) (*models.BookingSnapshot, error) {
	user, err := s.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	opts := s.Options
	if req.CommChannel != "" {
		opts.CommChannel = req.CommChannel
	}
	o := NewOrchestrator(s.NewID(), userID, s.API, opts)
	o.SetAuth(auth)
	if req.PendingCertificate != nil && req.PendingCertificate.CertificateID != "" {
		o.SetPendingClaim(req.PendingCertificate)
	}
	o.Initialize(user, req.Presets)

	o.LoadCertificates(ctx)
	o.ClaimPendingCertificate(ctx)
	o.Refresh(ctx)

	s.register(o)
	snap := s.persist(ctx, o)
	s.Logger.Info("booking session initiated",
		zap.String("sessionID", snap.SessionID),
		zap.String("userID", userID),
		zap.String("phase", string(snap.Phase)),
	)
	return &snap, nil
}

// GetSession returns the current snapshot.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, userID, sessionID string) (*models.BookingSnapshot, error) {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	snap := o.Snapshot()
	return &snap, nil
}

// UpdateSession applies the changes in a fixed order (restaurant, date, party size, slot,
// confirmation, free-form fields) and refreshes the loads whose inputs moved. When one change
// is rejected the snapshot is returned alongside the error.
func (s *DefaultBookingSessionService) UpdateSession(ctx context.Context, userID string, auth models.Auth, sessionID string, update models.BookingSessionUpdate) (*models.BookingSnapshot, error) {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	o.SetAuth(auth)

	if err := applyUpdate(o, update); err != nil {
		// Earlier changes in the same update stay applied; the caller gets them with the error.
		o.Refresh(ctx)
		snap := s.persist(ctx, o)
		return &snap, err
	}
	o.Refresh(ctx)
	snap := s.persist(ctx, o)
	return &snap, nil
}

func applyUpdate(o *Orchestrator, u models.BookingSessionUpdate) error {
	switch {
	case u.ClearRestaurant:
		if err := o.SelectRestaurant(nil); err != nil {
			return err
		}
	case u.Restaurant != nil:
		if err := o.SelectRestaurant(u.Restaurant); err != nil {
			return err
		}
	}
	switch {
	case u.ClearDate:
		if err := o.SelectDate(nil); err != nil {
			return err
		}
	case u.Date != nil:
		if err := o.SelectDate(u.Date); err != nil {
			return err
		}
	}
	if u.GuestCount != nil {
		if err := o.SetGuestCount(*u.GuestCount); err != nil {
			return err
		}
	}
	if u.ChildrenCount != nil {
		if err := o.SetChildrenCount(*u.ChildrenCount); err != nil {
			return err
		}
	}
	switch {
	case u.ClearTimeSlot:
		if err := o.SelectTimeSlot(nil); err != nil {
			return err
		}
	case u.TimeSlot != nil:
		if err := o.SelectTimeSlot(u.TimeSlot); err != nil {
			return err
		}
	}
	if u.Confirmation != nil {
		if err := o.SetConfirmation(*u.Confirmation); err != nil {
			return err
		}
	}
	for name, value := range u.Fields {
		if err := o.UpdateField(name, value); err != nil {
			return err
		}
	}
	return nil
}

// RetrySlots reloads the slot list after a failure.
func (s *DefaultBookingSessionService) RetrySlots(ctx context.Context, userID string, auth models.Auth, sessionID string) (*models.BookingSnapshot, error) {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	o.SetAuth(auth)
	o.RetrySlots(ctx)
	snap := s.persist(ctx, o)
	return &snap, nil
}

// SelectPartition switches the slot picker toggle.
func (s *DefaultBookingSessionService) SelectPartition(ctx context.Context, userID, sessionID string, partition models.Partition) (*models.BookingSnapshot, error) {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := o.SelectPartition(partition); err != nil {
		return nil, err
	}
	snap := s.persist(ctx, o)
	return &snap, nil
}

// DismissPopup hides the submit popup.
func (s *DefaultBookingSessionService) DismissPopup(ctx context.Context, userID, sessionID string) (*models.BookingSnapshot, error) {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	o.DismissPopup()
	snap := s.persist(ctx, o)
	return &snap, nil
}

// Submit re-reads the profile, so that onboarding finished in another tab counts, and submits
// the form. A created booking closes the session and notifies the guest.
func (s *DefaultBookingSessionService) Submit(ctx context.Context, userID string, auth models.Auth, sessionID string) (*models.SubmitResult, error) {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	o.SetAuth(auth)

	user, err := s.Users.GetProfile(ctx, userID)
	if err != nil {
		s.Logger.Warn("profile not available before submit", zap.String("userID", userID), zap.Error(err))
	} else {
		o.SetUser(user)
	}

	result := o.Submit(ctx)
	snap := s.persist(ctx, o)
	result.Snapshot = &snap

	if result.Outcome == models.OutcomeCreated {
		s.afterCreated(ctx, user, snap, result.BookingID)
		o.Close()
		s.forget(sessionID)
		if err := s.Store.Delete(ctx, sessionID); err != nil {
			s.Logger.Warn("failed to delete booking session", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	return &result, nil
}

// afterCreated sends the confirmation message and schedules the reminder. Failures are logged only.
func (s *DefaultBookingSessionService) afterCreated(ctx context.Context, user *models.User, snap models.BookingSnapshot, bookingID int64) {
	if snap.Form.Confirmation != models.ConfirmationTelegram || user == nil || user.TelegramID == 0 {
		return
	}
	notice := models.BookingNotice{
		UserID:     snap.UserID,
		ChatID:     user.TelegramID,
		BookingID:  bookingID,
		GuestCount: snap.Form.TotalGuests(),
	}
	if snap.Form.Restaurant != nil {
		notice.RestaurantName = snap.Form.Restaurant.Title
	}
	if snap.Form.SelectedTimeSlot != nil {
		notice.StartsAt = snap.Form.SelectedTimeSlot.StartDatetime
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendBookingCreated(ctx, notice); err != nil {
			s.Logger.Warn("failed to send booking confirmation", zap.Int64("bookingID", bookingID), zap.Error(err))
		}
	}

	if s.Reminders == nil || s.ReminderLead <= 0 || notice.StartsAt == "" {
		return
	}
	start, ok := timeslot.ParseDatetime(notice.StartsAt, s.Options.Location)
	if !ok {
		return
	}
	at := start.Add(-s.ReminderLead)
	if !at.After(s.Options.Clock.Now()) {
		return
	}
	if err := s.Reminders.ScheduleReminder(ctx, notice, at); err != nil {
		s.Logger.Warn("failed to schedule reminder", zap.Int64("bookingID", bookingID), zap.Error(err))
	}
}

// CancelSession closes the form and removes it from the store.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, userID, sessionID string) error {
	o, err := s.lookup(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	o.Close()
	s.forget(sessionID)
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete booking session %s: %w", sessionID, err)
	}
	s.Logger.Info("booking session cancelled", zap.String("sessionID", sessionID))
	return nil
}

// SweepIdle closes forms that were not touched within the session TTL. Their stored
// snapshots expire on their own.
func (s *DefaultBookingSessionService) SweepIdle() int {
	now := s.Options.Clock.Now()
	var idle []*Orchestrator

	s.mu.Lock()
	for id, o := range s.sessions {
		if now.Sub(o.Snapshot().UpdatedAt) > s.SessionTTL {
			idle = append(idle, o)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, o := range idle {
		o.Close()
	}
	if len(idle) > 0 {
		s.Logger.Debug("swept idle booking sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// RunSweeper calls SweepIdle every interval until ctx is done.
func (s *DefaultBookingSessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepIdle()
		}
	}
}

// IsNotFound reports whether err means the caller cannot see the session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrForbidden)
}
