package models

import "time"

// Selectable is a picker value with its display title.
type Selectable struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Confirmation is how the restaurant should confirm the reservation.
type Confirmation string

const (
	ConfirmationTelegram Confirmation = "telegram"
	ConfirmationPhone    Confirmation = "phone"
	ConfirmationNone     Confirmation = "none"
)

// Valid reports whether c is a known confirmation channel.
func (c Confirmation) Valid() bool {
	switch c {
	case ConfirmationTelegram, ConfirmationPhone, ConfirmationNone:
		return true
	}
	return false
}

// Text is the human readable form sent to the backend.
func (c Confirmation) Text() string {
	switch c {
	case ConfirmationPhone:
		return "По телефону"
	case ConfirmationNone:
		return "Без подтверждения"
	default:
		return "В Telegram"
	}
}

// PreOrderMinGuests is the party size from which pre-ordering is offered.
const PreOrderMinGuests = 8

// BookingForm is the committed state of one reservation form.
// A nil Restaurant or Date means the user has not chosen one yet.
type BookingForm struct {
	Restaurant       *Selectable  `json:"restaurant"`
	Date             *Selectable  `json:"date"`
	SelectedTimeSlot *TimeSlot    `json:"selected_time_slot"`
	GuestCount       int          `json:"guest_count"`
	ChildrenCount    int          `json:"children_count"`
	UserName         string       `json:"user_name"`
	UserPhone        string       `json:"user_phone"`
	UserEmail        string       `json:"user_email"`
	Commentary       string       `json:"commentary"`
	Confirmation     Confirmation `json:"confirmation"`
	PreOrder         bool         `json:"pre_order"`
	CertificateID    *string      `json:"certificate_id"`
}

// TotalGuests counts adults and children.
func (f BookingForm) TotalGuests() int {
	return f.GuestCount + f.ChildrenCount
}

// FormPhase tracks one-shot initialization of a form.
type FormPhase string

const (
	PhaseUninitialized FormPhase = "uninitialized"
	PhaseSeeded        FormPhase = "seeded"
	PhaseReady         FormPhase = "ready"
)

// InvalidFields are the per-field markers shown after a failed validation.
type InvalidFields struct {
	Name     bool `json:"name"`
	Phone    bool `json:"phone"`
	Date     bool `json:"date"`
	TimeSlot bool `json:"time_slot"`
	Guests   bool `json:"guests"`
}

// Any reports whether at least one marker is set.
func (f InvalidFields) Any() bool {
	return f.Name || f.Phone || f.Date || f.TimeSlot || f.Guests
}

// ValidationResult is the outcome of validating a form.
type ValidationResult struct {
	NameValid     bool `json:"name_valid"`
	PhoneValid    bool `json:"phone_valid"`
	DateValid     bool `json:"date_valid"`
	TimeSlotValid bool `json:"time_slot_valid"`
	GuestsValid   bool `json:"guests_valid"`
	// FormValid gates submission. Date validity is deliberately not part of it.
	FormValid bool `json:"form_valid"`
}

// Invalid converts the result into display markers.
func (r ValidationResult) Invalid() InvalidFields {
	return InvalidFields{
		Name:     !r.NameValid,
		Phone:    !r.PhoneValid,
		Date:     !r.DateValid,
		TimeSlot: !r.TimeSlotValid,
		Guests:   !r.GuestsValid,
	}
}

// Popup kinds surfaced after a submit.
const (
	PopupBotError     = "bot_error"
	PopupGenericError = "generic_error"
)

// Navigation asks the mini app to move to another route.
type Navigation struct {
	Path    string         `json:"path"`
	Replace bool           `json:"replace"`
	State   map[string]any `json:"state,omitempty"`
}

// Toast is a short-lived notice.
type Toast struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BookingPresets carries values applied once when a form becomes ready.
type BookingPresets struct {
	Restaurant    *Selectable `json:"restaurant,omitempty"`
	Date          *Selectable `json:"date,omitempty"`
	TimeSlot      *TimeSlot   `json:"time_slot,omitempty"`
	GuestCount    *int        `json:"guest_count,omitempty"`
	ChildrenCount *int        `json:"children_count,omitempty"`
}

// BookingSnapshot is the full form view returned to the mini app and persisted between requests.
type BookingSnapshot struct {
	SessionID      string        `json:"session_id"`
	UserID         string        `json:"user_id"`
	Phase          FormPhase     `json:"phase"`
	Form           BookingForm   `json:"form"`
	AvailableDates []Selectable  `json:"available_dates"`
	AvailableSlots []TimeSlot    `json:"available_slots"`
	SlotsLoading   bool          `json:"slots_loading"`
	SlotsError     bool          `json:"slots_error"`
	Partitions     PartitionView `json:"partitions"`
	Invalid        InvalidFields `json:"invalid"`
	Toast          *Toast        `json:"toast,omitempty"`
	Popup          string        `json:"popup,omitempty"`
	Submitting     bool          `json:"submitting"`
	RetryAttempts  int           `json:"retry_attempts"`
	CommChannel    string        `json:"comm_channel"`
	Certificates   []Certificate `json:"certificates"`
	Pending        *PendingClaim `json:"pending_certificate,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
