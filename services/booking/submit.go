package booking

import (
	"context"
	"strconv"

	"tablebook/models"
	"tablebook/services/timeslot"

	"go.uber.org/zap"
)

// OnboardingResumePath is where an unfinished onboarding continues before booking.
const OnboardingResumePath = "/onboarding/3"

// Validate checks the form. When it fails the invalid markers are shown for the
// validation window and then cleared, whether or not the user fixed anything.
func (o *Orchestrator) Validate() models.ValidationResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.validateLocked()
}

func (o *Orchestrator) validateLocked() models.ValidationResult {
	res := ValidateForm(o.form)
	if res.FormValid {
		return res
	}

	o.invalid = res.Invalid()
	if o.invalidTimer != nil {
		o.invalidTimer.Stop()
	}
	var timer Timer
	timer = o.opts.Clock.AfterFunc(o.opts.ValidationWindow, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.invalidTimer == timer {
			o.invalid = models.InvalidFields{}
			o.invalidTimer = nil
		}
	})
	o.invalidTimer = timer
	return res
}

// resumeState is carried to onboarding so the form can be prefilled on return.
func (o *Orchestrator) resumeState() map[string]any {
	state := map[string]any{
		"guest_count":    o.form.GuestCount,
		"children_count": o.form.ChildrenCount,
	}
	if o.form.Restaurant != nil {
		state["restaurant"] = *o.form.Restaurant
	}
	if o.form.Date != nil {
		state["date"] = *o.form.Date
	}
	if o.form.SelectedTimeSlot != nil {
		state["time_slot"] = *o.form.SelectedTimeSlot
	}
	return state
}

func (o *Orchestrator) buildRequest() models.CreateBookingRequest {
	o.enforcePreOrder()
	start, _ := timeslot.ShortTime(*o.form.SelectedTimeSlot, o.opts.Location)
	req := models.CreateBookingRequest{
		RestaurantID:     o.form.Restaurant.Value,
		BookingDate:      o.form.Date.Value,
		Time:             start,
		GuestsCount:      o.form.GuestCount,
		ChildrenCount:    o.form.ChildrenCount,
		UserName:         o.form.UserName,
		UserPhone:        o.form.UserPhone,
		UserEmail:        o.form.UserEmail,
		Commentary:       o.form.Commentary,
		CommChannel:      o.opts.CommChannel,
		ConfirmationType: o.form.Confirmation.Text(),
		PreOrder:         o.form.PreOrder,
	}
	if o.form.CertificateID != nil {
		id := *o.form.CertificateID
		req.CertificateID = &id
	}
	return req
}

// Submit creates the booking, or tells the caller where to go instead.
func (o *Orchestrator) Submit(ctx context.Context) models.SubmitResult {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return models.SubmitResult{Outcome: models.OutcomeSkipped}
	}

	if o.user == nil {
		// No profile, no onboarding verdict.
		o.mu.Unlock()
		return models.SubmitResult{Outcome: models.OutcomeSkipped}
	}
	if !o.user.CompleteOnboarding {
		nav := &models.Navigation{Path: OnboardingResumePath, State: o.resumeState()}
		o.mu.Unlock()
		return models.SubmitResult{Outcome: models.OutcomeRedirect, Navigation: nav}
	}

	res := o.validateLocked()
	if !res.FormValid {
		o.touch()
		o.mu.Unlock()
		return models.SubmitResult{Outcome: models.OutcomeInvalid, Validation: &res}
	}
	if !o.auth.Valid(o.opts.Clock.Now()) || o.form.SelectedTimeSlot == nil || o.form.Restaurant == nil || o.form.Date == nil {
		o.mu.Unlock()
		return models.SubmitResult{Outcome: models.OutcomeSkipped, Validation: &res}
	}
	if o.submitting {
		o.mu.Unlock()
		return models.SubmitResult{Outcome: models.OutcomeBusy}
	}

	o.submitting = true
	o.popup = ""
	token := o.auth.AccessToken
	req := o.buildRequest()
	o.touch()
	o.mu.Unlock()

	resp, err := o.api.CreateBooking(ctx, token, req)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitting = false
	o.touch()

	if err != nil {
		o.retryAttempts++
		o.popup = models.PopupGenericError
		o.logger.Error("create booking failed",
			zap.String("restaurantID", req.RestaurantID),
			zap.Int("retryAttempts", o.retryAttempts),
			zap.Error(err),
		)
		return models.SubmitResult{Outcome: models.OutcomeFailed, Validation: &res}
	}
	if resp.Rejected() {
		o.popup = models.PopupBotError
		o.logger.Warn("create booking rejected", zap.String("restaurantID", req.RestaurantID), zap.Any("error", resp.Error))
		return models.SubmitResult{Outcome: models.OutcomeBotError, Validation: &res}
	}

	o.logger.Info("booking created", zap.Int64("bookingID", resp.ID), zap.String("restaurantID", req.RestaurantID))
	return models.SubmitResult{
		Outcome:    models.OutcomeCreated,
		BookingID:  resp.ID,
		Validation: &res,
		Navigation: &models.Navigation{Path: "/myBookings/" + strconv.FormatInt(resp.ID, 10)},
	}
}
