package booking

import (
	"strconv"
	"sync"
	"time"

	"tablebook/models"
	"tablebook/services/backend"
	"tablebook/services/timeslot"

	"go.uber.org/zap"
)

const (
	defaultLeadDays         = 30
	defaultValidationWindow = 5 * time.Second
	defaultToastWindow      = 3 * time.Second

	claimFailedMessage = "Не удалось активировать сертификат. Попробуйте позже."
)

// Options tune an Orchestrator. Zero values fall back to defaults.
type Options struct {
	Location         *time.Location
	LeadDays         int
	ValidationWindow time.Duration
	ToastWindow      time.Duration
	CommChannel      string
	Clock            Clock
	Logger           *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.LeadDays <= 0 {
		o.LeadDays = defaultLeadDays
	}
	if o.ValidationWindow <= 0 {
		o.ValidationWindow = defaultValidationWindow
	}
	if o.ToastWindow <= 0 {
		o.ToastWindow = defaultToastWindow
	}
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Orchestrator owns one booking form from first render to submission.
// All methods are safe for concurrent use; network calls run without holding the lock
// and their results are dropped when the inputs they were issued for have changed.
type Orchestrator struct {
	mu sync.Mutex

	id     string
	userID string
	api    backend.BookingAPI
	opts   Options
	logger *zap.Logger

	auth  models.Auth
	user  *models.User
	phase models.FormPhase
	form  models.BookingForm

	// A prefilled slot waits here until the slot list that contains it arrives.
	pendingSlot *models.TimeSlot

	dates        []models.Selectable
	slots        []models.TimeSlot
	slotsLoading bool
	slotsError   bool
	selector     *timeslot.Selector

	datesGen, slotsGen             uint64
	requestedDates, requestedSlots string

	invalid      models.InvalidFields
	invalidTimer Timer
	toast        *models.Toast
	toastTimer   Timer

	popup         string
	submitting    bool
	retryAttempts int

	certificates []models.Certificate
	pending      *models.PendingClaim

	updatedAt time.Time
	closed    bool
}

// NewOrchestrator creates an uninitialized form.
func NewOrchestrator(id, userID string, api backend.BookingAPI, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		id:       id,
		userID:   userID,
		api:      api,
		opts:     opts,
		logger:   opts.Logger.With(zap.String("bookingSession", id)),
		phase:    models.PhaseUninitialized,
		form:     models.BookingForm{Confirmation: models.ConfirmationTelegram},
		selector: timeslot.NewSelector(opts.Location),
	}
}

// ID returns the session id.
func (o *Orchestrator) ID() string { return o.id }

// UserID returns the owner of the form.
func (o *Orchestrator) UserID() string { return o.userID }

// SetAuth replaces the access token used for backend calls.
func (o *Orchestrator) SetAuth(auth models.Auth) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.auth = auth
}

// SetUser refreshes the profile used for onboarding checks without reseeding fields.
func (o *Orchestrator) SetUser(user *models.User) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.user = user
}

// SetPendingClaim records a gifted certificate carried into the form.
func (o *Orchestrator) SetPendingClaim(claim *models.PendingClaim) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = claim
}

// Phase returns the initialization phase.
func (o *Orchestrator) Phase() models.FormPhase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Seed copies contact fields from the profile. It runs once, and only with a loaded profile.
func (o *Orchestrator) Seed(user *models.User) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != models.PhaseUninitialized || user == nil {
		return false
	}
	o.user = user
	o.form.UserName = user.DisplayName()
	if user.PhoneNumber != nil {
		o.form.UserPhone = *user.PhoneNumber
	}
	o.form.UserEmail = user.Email
	o.phase = models.PhaseSeeded
	o.touch()
	return true
}

// ApplyPresets applies a preselected restaurant and prefilled values. It runs once, after Seed.
func (o *Orchestrator) ApplyPresets(p models.BookingPresets) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != models.PhaseSeeded {
		return false
	}
	if p.Restaurant != nil && p.Restaurant.Value != "" {
		r := *p.Restaurant
		o.form.Restaurant = &r
	}
	if p.Date != nil && p.Date.Value != "" {
		d := *p.Date
		if d.Title == "" {
			d.Title = FormatDateTitle(d.Value, o.opts.Location)
		}
		o.form.Date = &d
	}
	if p.GuestCount != nil && *p.GuestCount >= 0 {
		o.form.GuestCount = *p.GuestCount
	}
	if p.ChildrenCount != nil && *p.ChildrenCount >= 0 {
		o.form.ChildrenCount = *p.ChildrenCount
	}
	if p.TimeSlot != nil && o.form.Date != nil {
		slot := *p.TimeSlot
		o.pendingSlot = &slot
	}
	o.enforcePreOrder()
	o.phase = models.PhaseReady
	o.touch()
	return true
}

// Initialize runs Seed and ApplyPresets in order.
func (o *Orchestrator) Initialize(user *models.User, presets models.BookingPresets) {
	o.Seed(user)
	o.ApplyPresets(presets)
}

// Close cancels pending timers. Further loads are discarded.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.stopTimers()
}

func (o *Orchestrator) stopTimers() {
	if o.invalidTimer != nil {
		o.invalidTimer.Stop()
		o.invalidTimer = nil
	}
	if o.toastTimer != nil {
		o.toastTimer.Stop()
		o.toastTimer = nil
	}
}

func (o *Orchestrator) touch() {
	o.updatedAt = o.opts.Clock.Now()
}

// enforcePreOrder keeps pre-ordering off for parties under the threshold.
func (o *Orchestrator) enforcePreOrder() {
	if o.form.TotalGuests() < models.PreOrderMinGuests {
		o.form.PreOrder = false
	}
}

// datesKey identifies the inputs of the dates load, or "" when it must not run.
func (o *Orchestrator) datesKey() string {
	if !o.auth.Valid(o.opts.Clock.Now()) || o.form.Restaurant == nil {
		return ""
	}
	return o.auth.AccessToken + "|" + o.form.Restaurant.Value
}

// slotsKey identifies the inputs of the slots load, or "" when it must not run.
func (o *Orchestrator) slotsKey() string {
	if !o.auth.Valid(o.opts.Clock.Now()) || o.form.Restaurant == nil || o.form.Date == nil || o.form.GuestCount <= 0 {
		return ""
	}
	return o.auth.AccessToken + "|" + o.form.Restaurant.Value + "|" + o.form.Date.Value + "|" + strconv.Itoa(o.form.GuestCount)
}

func (o *Orchestrator) showToast(message string) {
	if o.toastTimer != nil {
		o.toastTimer.Stop()
	}
	o.toast = &models.Toast{Message: message, ExpiresAt: o.opts.Clock.Now().Add(o.opts.ToastWindow)}
	var timer Timer
	timer = o.opts.Clock.AfterFunc(o.opts.ToastWindow, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.toastTimer == timer {
			o.toast = nil
			o.toastTimer = nil
		}
	})
	o.toastTimer = timer
}

// Snapshot returns the current view of the form.
func (o *Orchestrator) Snapshot() models.BookingSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() models.BookingSnapshot {
	form := o.form
	if form.Restaurant != nil {
		r := *form.Restaurant
		form.Restaurant = &r
	}
	if form.Date != nil {
		d := *form.Date
		form.Date = &d
	}
	if form.SelectedTimeSlot != nil {
		s := *form.SelectedTimeSlot
		form.SelectedTimeSlot = &s
	}
	if form.CertificateID != nil {
		c := *form.CertificateID
		form.CertificateID = &c
	}

	snap := models.BookingSnapshot{
		SessionID:      o.id,
		UserID:         o.userID,
		Phase:          o.phase,
		Form:           form,
		AvailableDates: append([]models.Selectable{}, o.dates...),
		AvailableSlots: append([]models.TimeSlot{}, o.slots...),
		SlotsLoading:   o.slotsLoading,
		SlotsError:     o.slotsError,
		Partitions:     o.selector.View(o.slots),
		Invalid:        o.invalid,
		Popup:          o.popup,
		Submitting:     o.submitting,
		RetryAttempts:  o.retryAttempts,
		CommChannel:    o.opts.CommChannel,
		Certificates:   append([]models.Certificate{}, o.certificates...),
		UpdatedAt:      o.updatedAt,
	}
	if o.toast != nil {
		t := *o.toast
		snap.Toast = &t
	}
	if o.pending != nil {
		p := *o.pending
		snap.Pending = &p
	}
	return snap
}

// RestoreOrchestrator rebuilds a form from a persisted snapshot. Transient display state
// (invalid markers, toasts, in-flight flags) is not restored and lists are reloaded on the next Refresh.
// A selected slot found in the persisted slot list stays selected.
func RestoreOrchestrator(snap models.BookingSnapshot, api backend.BookingAPI, opts Options) *Orchestrator {
	if snap.CommChannel != "" && opts.CommChannel == "" {
		opts.CommChannel = snap.CommChannel
	}
	o := NewOrchestrator(snap.SessionID, snap.UserID, api, opts)
	o.phase = snap.Phase
	o.form = snap.Form
	o.dates = append([]models.Selectable{}, snap.AvailableDates...)
	o.slots = append([]models.TimeSlot{}, snap.AvailableSlots...)
	o.retryAttempts = snap.RetryAttempts
	o.popup = snap.Popup
	o.certificates = append([]models.Certificate{}, snap.Certificates...)
	o.pending = snap.Pending
	o.updatedAt = snap.UpdatedAt
	if slot := o.form.SelectedTimeSlot; slot != nil && !timeslot.Contains(o.slots, *slot) {
		// Waits for a list that contains it.
		o.pendingSlot = slot
		o.form.SelectedTimeSlot = nil
	}
	o.selector.Restore(snap.Partitions.Active, o.form.SelectedTimeSlot)
	return o
}
