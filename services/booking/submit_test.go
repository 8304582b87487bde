package booking

import (
	"context"
	"testing"
	"time"

	"tablebook/models"
)

func TestValidateForm(t *testing.T) {
	date := &models.Selectable{Value: "2026-10-21"}
	valid := models.BookingForm{
		UserName:         "Анна",
		UserPhone:        "+79991234567",
		Date:             date,
		SelectedTimeSlot: &evening,
		GuestCount:       2,
	}

	tests := []struct {
		name   string
		mutate func(f *models.BookingForm)
		check  func(r models.ValidationResult) bool
		valid  bool
	}{
		{"complete form", func(f *models.BookingForm) {}, func(r models.ValidationResult) bool { return r.NameValid && r.PhoneValid }, true},
		{"phone with 8 and punctuation", func(f *models.BookingForm) { f.UserPhone = "8 (999) 123-45-67" }, func(r models.ValidationResult) bool { return r.PhoneValid }, true},
		{"short phone", func(f *models.BookingForm) { f.UserPhone = "12345" }, func(r models.ValidationResult) bool { return !r.PhoneValid }, false},
		{"blank name", func(f *models.BookingForm) { f.UserName = "  " }, func(r models.ValidationResult) bool { return !r.NameValid }, false},
		{"no guests", func(f *models.BookingForm) { f.GuestCount = 0 }, func(r models.ValidationResult) bool { return !r.GuestsValid }, false},
		{"no slot", func(f *models.BookingForm) { f.SelectedTimeSlot = nil }, func(r models.ValidationResult) bool { return !r.TimeSlotValid }, false},
		{"no date does not gate", func(f *models.BookingForm) { f.Date = nil }, func(r models.ValidationResult) bool { return !r.DateValid }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			res := ValidateForm(form)
			if res.FormValid != tt.valid {
				t.Errorf("FormValid = %v, want %v (%+v)", res.FormValid, tt.valid, res)
			}
			if !tt.check(res) {
				t.Errorf("unexpected field result %+v", res)
			}
		})
	}
}

func TestOrchestrator_InvalidMarkersClearAfterWindow(t *testing.T) {
	clock := newFakeClock()
	o := readyForm(t, defaultAPI(), clock)
	_ = o.UpdateField(FieldUserPhone, "123")

	res := o.Validate()
	if res.FormValid {
		t.Fatal("form should be invalid")
	}
	inv := o.Snapshot().Invalid
	if !inv.Phone || !inv.TimeSlot || inv.Name {
		t.Fatalf("unexpected markers %+v", inv)
	}

	clock.Advance(4 * time.Second)
	if !o.Snapshot().Invalid.Any() {
		t.Fatal("markers cleared too early")
	}

	// A second failed attempt restarts the window.
	o.Validate()
	clock.Advance(4 * time.Second)
	if !o.Snapshot().Invalid.Any() {
		t.Fatal("window was not restarted")
	}
	clock.Advance(time.Second)
	if o.Snapshot().Invalid.Any() {
		t.Error("markers should be cleared after the window")
	}
}

func TestOrchestrator_CloseStopsTimers(t *testing.T) {
	clock := newFakeClock()
	o := readyForm(t, defaultAPI(), clock)
	o.Validate()
	if clock.pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", clock.pending())
	}

	o.Close()
	if clock.pending() != 0 {
		t.Error("close left timers running")
	}
	if err := o.SetGuestCount(4); err != ErrSessionClosed {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	if got := o.Submit(context.Background()).Outcome; got != models.OutcomeSkipped {
		t.Errorf("submit on closed form = %s", got)
	}
}

func TestOrchestrator_SubmitRedirectsToOnboarding(t *testing.T) {
	api := defaultAPI()
	o := readyForm(t, api, newFakeClock())
	_ = o.SelectTimeSlot(&evening)
	o.SetUser(&models.User{ID: "u1", FirstName: "Анна"})

	res := o.Submit(context.Background())
	if res.Outcome != models.OutcomeRedirect || res.Navigation == nil {
		t.Fatalf("expected redirect, got %+v", res)
	}
	if res.Navigation.Path != OnboardingResumePath {
		t.Errorf("path = %q", res.Navigation.Path)
	}
	if r, ok := res.Navigation.State["restaurant"].(models.Selectable); !ok || r.Value != "77" {
		t.Errorf("restaurant missing from resume state: %+v", res.Navigation.State)
	}
	if s, ok := res.Navigation.State["time_slot"].(models.TimeSlot); !ok || s != evening {
		t.Errorf("slot missing from resume state: %+v", res.Navigation.State)
	}
	if res.Navigation.State["guest_count"] != 2 {
		t.Errorf("guest count missing from resume state: %+v", res.Navigation.State)
	}
	if len(api.created) != 0 {
		t.Error("booking must not be created before onboarding")
	}
}

func TestOrchestrator_SubmitWithoutProfileIsSkipped(t *testing.T) {
	api := defaultAPI()
	o := readyForm(t, api, newFakeClock())
	_ = o.SelectTimeSlot(&evening)
	o.SetUser(nil)

	res := o.Submit(context.Background())
	if res.Outcome != models.OutcomeSkipped || res.Navigation != nil {
		t.Fatalf("expected skipped without navigation, got %+v", res)
	}
	if len(api.created) != 0 {
		t.Error("booking created without a profile")
	}
}

func TestOrchestrator_SubmitWhileInFlightIsBusy(t *testing.T) {
	api := defaultAPI()
	o := readyForm(t, api, newFakeClock())
	_ = o.SelectTimeSlot(&evening)

	release := make(chan struct{})
	api.mu.Lock()
	api.createBlock = release
	api.createStarted = make(chan struct{}, 1)
	api.mu.Unlock()

	first := make(chan models.SubmitResult, 1)
	go func() { first <- o.Submit(context.Background()) }()
	<-api.createStarted

	if !o.Snapshot().Submitting {
		t.Error("submitting flag should be set while the request is in flight")
	}
	if res := o.Submit(context.Background()); res.Outcome != models.OutcomeBusy {
		t.Errorf("second submit outcome = %s, want busy", res.Outcome)
	}

	close(release)
	if res := <-first; res.Outcome != models.OutcomeCreated {
		t.Errorf("first submit outcome = %s", res.Outcome)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.created) != 1 {
		t.Errorf("expected one create call, got %d", len(api.created))
	}
}

func TestOrchestrator_SubmitInvalid(t *testing.T) {
	api := defaultAPI()
	o := readyForm(t, api, newFakeClock())

	res := o.Submit(context.Background())
	if res.Outcome != models.OutcomeInvalid || res.Validation == nil || res.Validation.TimeSlotValid {
		t.Fatalf("expected invalid outcome, got %+v", res)
	}
	if !o.Snapshot().Invalid.TimeSlot {
		t.Error("slot marker not shown")
	}
	if len(api.created) != 0 {
		t.Error("invalid form reached the backend")
	}
}

func TestOrchestrator_SubmitCreated(t *testing.T) {
	api := defaultAPI()
	o := readyForm(t, api, newFakeClock())
	_ = o.SelectTimeSlot(&evening)
	_ = o.UpdateField(FieldPreOrder, true)
	_ = o.UpdateField(FieldCommentary, "у окна")

	res := o.Submit(context.Background())
	if res.Outcome != models.OutcomeCreated || res.BookingID != 555 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Navigation == nil || res.Navigation.Path != "/myBookings/555" {
		t.Errorf("navigation = %+v", res.Navigation)
	}
	if len(api.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.created))
	}

	req := api.created[0]
	if req.Time != "19:00" || req.BookingDate != "2026-10-21" || req.RestaurantID != "77" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.ConfirmationType != "В Telegram" || req.CommChannel != "tg" {
		t.Errorf("confirmation fields = %q/%q", req.ConfirmationType, req.CommChannel)
	}
	if req.PreOrder {
		t.Error("pre-order must be false for 2 guests")
	}
	if req.Commentary != "у окна" || req.UserName != "Анна Иванова" {
		t.Errorf("contact fields = %+v", req)
	}
	if o.Snapshot().Submitting {
		t.Error("submitting flag left set")
	}
}

func TestOrchestrator_SubmitRejected(t *testing.T) {
	api := defaultAPI()
	api.createResp = &models.CreateBookingResponse{Error: "restaurant bot unavailable"}
	o := readyForm(t, api, newFakeClock())
	_ = o.SelectTimeSlot(&evening)

	res := o.Submit(context.Background())
	if res.Outcome != models.OutcomeBotError {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if got := o.Snapshot().Popup; got != models.PopupBotError {
		t.Errorf("popup = %q", got)
	}

	o.DismissPopup()
	if o.Snapshot().Popup != "" {
		t.Error("popup not dismissed")
	}
}

func TestOrchestrator_SubmitTransportFailure(t *testing.T) {
	api := defaultAPI()
	api.createErr = errTransport
	o := readyForm(t, api, newFakeClock())
	_ = o.SelectTimeSlot(&evening)

	for i := 1; i <= 2; i++ {
		res := o.Submit(context.Background())
		if res.Outcome != models.OutcomeFailed {
			t.Fatalf("attempt %d outcome = %s", i, res.Outcome)
		}
		snap := o.Snapshot()
		if snap.Popup != models.PopupGenericError || snap.RetryAttempts != i {
			t.Errorf("attempt %d: popup=%q retries=%d", i, snap.Popup, snap.RetryAttempts)
		}
	}
}

func TestOrchestrator_ClaimPendingCertificate(t *testing.T) {
	gift := models.Certificate{ID: "c1", Name: "Ужин", Value: 5000}

	t.Run("claims and selects", func(t *testing.T) {
		api := defaultAPI()
		api.certsAfter = []models.Certificate{gift}
		o := readyForm(t, api, newFakeClock())
		o.SetPendingClaim(&models.PendingClaim{CertificateID: "c1"})

		o.ClaimPendingCertificate(context.Background())

		snap := o.Snapshot()
		if len(api.claims) != 1 || api.claims[0].RecipientName != "Анна Иванова" || api.claims[0].UserID != "u1" {
			t.Fatalf("unexpected claims %+v", api.claims)
		}
		if len(snap.Certificates) != 1 || snap.Form.CertificateID == nil || *snap.Form.CertificateID != "c1" {
			t.Errorf("certificate not selected: %+v", snap)
		}
		if snap.Pending != nil {
			t.Error("pending claim not consumed")
		}
	})

	t.Run("failure shows a toast once", func(t *testing.T) {
		api := defaultAPI()
		api.claimErr = errTransport
		clock := newFakeClock()
		o := readyForm(t, api, clock)
		o.SetPendingClaim(&models.PendingClaim{CertificateID: "c1"})

		o.ClaimPendingCertificate(context.Background())
		o.ClaimPendingCertificate(context.Background())

		if len(api.claims) != 1 {
			t.Errorf("claim retried: %d calls", len(api.claims))
		}
		if toast := o.Snapshot().Toast; toast == nil || toast.Message != claimFailedMessage {
			t.Fatalf("toast = %+v", toast)
		}
		clock.Advance(3 * time.Second)
		if o.Snapshot().Toast != nil {
			t.Error("toast not hidden")
		}
	})

	t.Run("skipped when the user has certificates", func(t *testing.T) {
		api := defaultAPI()
		api.certs = []models.Certificate{gift}
		o := readyForm(t, api, newFakeClock())
		o.LoadCertificates(context.Background())
		o.SetPendingClaim(&models.PendingClaim{CertificateID: "c2"})

		o.ClaimPendingCertificate(context.Background())

		if len(api.claims) != 0 {
			t.Error("claim issued although the list is not empty")
		}
	})
}
