package booking

import (
	"context"

	"tablebook/models"
	"tablebook/services/timeslot"

	"go.uber.org/zap"
)

// Refresh starts the dependent loads whose inputs changed since they last ran.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	dk, sk := o.datesKey(), o.slotsKey()
	needDates := dk != "" && dk != o.requestedDates
	needSlots := sk != "" && sk != o.requestedSlots
	o.mu.Unlock()

	if needDates {
		o.LoadDates(ctx)
	}
	if needSlots {
		o.LoadSlots(ctx)
	}
}

// LoadDates fetches bookable dates for the selected restaurant. Failures are logged and
// leave the current list as it is.
func (o *Orchestrator) LoadDates(ctx context.Context) {
	o.mu.Lock()
	key := o.datesKey()
	if key == "" || o.closed {
		o.mu.Unlock()
		return
	}
	o.datesGen++
	gen := o.datesGen
	o.requestedDates = key
	token := o.auth.AccessToken
	restaurantID := o.form.Restaurant.Value
	o.mu.Unlock()

	raw, err := o.api.GetAvailableDays(ctx, token, restaurantID, o.opts.LeadDays)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || gen != o.datesGen || key != o.datesKey() {
		o.logger.Debug("discarding stale available dates", zap.String("restaurantID", restaurantID))
		return
	}
	if err != nil {
		o.logger.Warn("failed to load available dates", zap.String("restaurantID", restaurantID), zap.Error(err))
		return
	}
	o.dates = toSelectableDates(raw, o.opts.Location)
	o.touch()
}

// LoadSlots fetches bookable slots for restaurant, date and party size.
// On failure SlotsError is raised; the loading flag is always cleared by the request that owns it.
func (o *Orchestrator) LoadSlots(ctx context.Context) {
	o.mu.Lock()
	key := o.slotsKey()
	if key == "" || o.closed {
		o.mu.Unlock()
		return
	}
	o.slotsGen++
	gen := o.slotsGen
	o.requestedSlots = key
	o.slotsLoading = true
	o.slotsError = false
	token := o.auth.AccessToken
	restaurantID := o.form.Restaurant.Value
	date := o.form.Date.Value
	guests := o.form.GuestCount
	o.mu.Unlock()

	slots, err := o.api.GetAvailableTimeSlots(ctx, token, restaurantID, date, guests)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.slotsGen {
		// A newer request owns the loading flag.
		return
	}
	o.slotsLoading = false
	if o.closed || key != o.slotsKey() {
		o.logger.Debug("discarding stale time slots",
			zap.String("restaurantID", restaurantID), zap.String("date", date), zap.Int("guests", guests))
		return
	}
	if err != nil {
		o.logger.Warn("failed to load time slots",
			zap.String("restaurantID", restaurantID), zap.String("date", date), zap.Error(err))
		o.slotsError = true
		o.slots = nil
		o.dropUnavailableSlot()
		o.selector.Sync(o.slots, o.form.SelectedTimeSlot)
		o.touch()
		return
	}

	o.slots = slots
	o.dropUnavailableSlot()
	o.selector.Sync(o.slots, o.form.SelectedTimeSlot)
	o.touch()
}

// RetrySlots forces the slot load for the current inputs.
func (o *Orchestrator) RetrySlots(ctx context.Context) {
	o.LoadSlots(ctx)
}

// dropUnavailableSlot keeps the selected slot only when it is in the loaded list,
// promoting a prefilled slot once its list arrives.
func (o *Orchestrator) dropUnavailableSlot() {
	if o.pendingSlot != nil {
		if timeslot.Contains(o.slots, *o.pendingSlot) {
			slot := *o.pendingSlot
			o.form.SelectedTimeSlot = &slot
		}
		o.pendingSlot = nil
	}
	if o.form.SelectedTimeSlot != nil && !timeslot.Contains(o.slots, *o.form.SelectedTimeSlot) {
		o.form.SelectedTimeSlot = nil
	}
}

// LoadCertificates fetches the user's certificate list. Failures are logged only.
func (o *Orchestrator) LoadCertificates(ctx context.Context) {
	o.mu.Lock()
	if !o.auth.Valid(o.opts.Clock.Now()) || o.closed {
		o.mu.Unlock()
		return
	}
	token := o.auth.AccessToken
	o.mu.Unlock()

	certs, err := o.api.GetCertificates(ctx, token, o.userID)
	if err != nil {
		o.logger.Warn("failed to load certificates", zap.Error(err))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.certificates = certs
	o.touch()
}

// ClaimPendingCertificate claims a gifted certificate when the user has none yet, then
// refreshes the list. A failed claim shows a toast and is not retried.
func (o *Orchestrator) ClaimPendingCertificate(ctx context.Context) {
	o.mu.Lock()
	if o.pending == nil || o.closed || !o.auth.Valid(o.opts.Clock.Now()) {
		o.mu.Unlock()
		return
	}
	if len(o.certificates) > 0 {
		o.mu.Unlock()
		return
	}
	claim := *o.pending
	o.pending = nil
	token := o.auth.AccessToken
	req := models.ClaimCertificateRequest{
		UserID:        o.userID,
		CertificateID: claim.CertificateID,
		RecipientName: o.form.UserName,
	}
	o.mu.Unlock()

	if err := o.api.ClaimCertificate(ctx, token, req); err != nil {
		o.logger.Warn("failed to claim certificate", zap.String("certificateID", claim.CertificateID), zap.Error(err))
		o.mu.Lock()
		o.showToast(claimFailedMessage)
		o.touch()
		o.mu.Unlock()
		return
	}

	certs, err := o.api.GetCertificates(ctx, token, o.userID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.logger.Warn("failed to refetch certificates", zap.Error(err))
	} else {
		o.certificates = certs
	}
	id := claim.CertificateID
	o.form.CertificateID = &id
	o.touch()
}
