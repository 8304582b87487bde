package models

// CreateBookingRequest is the body of the backend create-booking call.
type CreateBookingRequest struct {
	RestaurantID     string  `json:"restaurant_id"`
	BookingDate      string  `json:"booking_date"`
	Time             string  `json:"time"`
	GuestsCount      int     `json:"guests_count"`
	ChildrenCount    int     `json:"children_count"`
	UserName         string  `json:"user_name"`
	UserPhone        string  `json:"user_phone"`
	UserEmail        string  `json:"user_email"`
	Commentary       string  `json:"commentary"`
	CommChannel      string  `json:"comm_channel"`
	ConfirmationType string  `json:"confirmation_type"`
	PreOrder         bool    `json:"pre_order"`
	EventID          *string `json:"event_id"`
	CertificateID    *string `json:"certificate_id"`
}

// CreateBookingResponse carries either the new booking id or a business error.
type CreateBookingResponse struct {
	ID    int64 `json:"id,omitempty"`
	Error any   `json:"error,omitempty"`
}

// Rejected reports whether the backend answered with an error payload.
func (r CreateBookingResponse) Rejected() bool {
	switch v := r.Error.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		return true
	}
}

// SubmitOutcome names what a submit attempt resulted in.
type SubmitOutcome string

const (
	OutcomeRedirect SubmitOutcome = "redirect"
	OutcomeInvalid  SubmitOutcome = "invalid"
	OutcomeSkipped  SubmitOutcome = "skipped"
	OutcomeBusy     SubmitOutcome = "busy"
	OutcomeCreated  SubmitOutcome = "created"
	OutcomeBotError SubmitOutcome = "bot_error"
	OutcomeFailed   SubmitOutcome = "failed"
)

// SubmitResult is returned from a submit attempt.
type SubmitResult struct {
	Outcome    SubmitOutcome     `json:"outcome"`
	BookingID  int64             `json:"booking_id,omitempty"`
	Navigation *Navigation       `json:"navigation,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty"`
	Snapshot   *BookingSnapshot  `json:"snapshot,omitempty"`
}

// BookingNotice describes a created booking. It is sent to the guest right away and
// is also the payload of the reminder task.
type BookingNotice struct {
	UserID         string `json:"userId"`
	ChatID         int64  `json:"chatId"`
	BookingID      int64  `json:"bookingId"`
	RestaurantName string `json:"restaurantName"`
	StartsAt       string `json:"startsAt"`
	GuestCount     int    `json:"guestCount"`
}

// InitiateBookingRequest opens a booking form.
type InitiateBookingRequest struct {
	Presets            BookingPresets `json:"presets"`
	PendingCertificate *PendingClaim  `json:"pending_certificate,omitempty"`
	CommChannel        string         `json:"comm_channel,omitempty"`
}

// BookingSessionUpdate is a partial change to a booking form. Nil fields are left as they are;
// the Clear flags reset the matching selection.
type BookingSessionUpdate struct {
	Restaurant      *Selectable    `json:"restaurant,omitempty"`
	ClearRestaurant bool           `json:"clear_restaurant,omitempty"`
	Date            *Selectable    `json:"date,omitempty"`
	ClearDate       bool           `json:"clear_date,omitempty"`
	GuestCount      *int           `json:"guest_count,omitempty"`
	ChildrenCount   *int           `json:"children_count,omitempty"`
	TimeSlot        *TimeSlot      `json:"time_slot,omitempty"`
	ClearTimeSlot   bool           `json:"clear_time_slot,omitempty"`
	Confirmation    *Confirmation  `json:"confirmation,omitempty"`
	Fields          map[string]any `json:"fields,omitempty"`
}
