package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"tablebook/models"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

var errTransport = errors.New("connection reset")

type fakeAPI struct {
	mu sync.Mutex

	days        []string
	daysBy      map[string][]string
	daysErr     error
	daysCalls   int
	daysBlock   map[string]chan struct{}
	daysStarted chan string

	slots      map[string][]models.TimeSlot
	slotsErr   error
	slotsCalls int
	block      map[string]chan struct{}
	started    chan string

	createResp    *models.CreateBookingResponse
	createErr     error
	created       []models.CreateBookingRequest
	createBlock   chan struct{}
	createStarted chan struct{}

	claimErr   error
	claims     []models.ClaimCertificateRequest
	certs      []models.Certificate
	certsAfter []models.Certificate
	certsCalls int
}

func (f *fakeAPI) GetAvailableDays(_ context.Context, _, restaurantID string, _ int) ([]string, error) {
	f.mu.Lock()
	f.daysCalls++
	wait := f.daysBlock[restaurantID]
	started := f.daysStarted
	f.mu.Unlock()

	if started != nil {
		started <- restaurantID
	}
	if wait != nil {
		<-wait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.daysErr != nil {
		return nil, f.daysErr
	}
	if days, ok := f.daysBy[restaurantID]; ok {
		return append([]string{}, days...), nil
	}
	return append([]string{}, f.days...), nil
}

func (f *fakeAPI) GetAvailableTimeSlots(_ context.Context, _, _, date string, _ int) ([]models.TimeSlot, error) {
	f.mu.Lock()
	f.slotsCalls++
	wait := f.block[date]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- date
	}
	if wait != nil {
		<-wait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return append([]models.TimeSlot{}, f.slots[date]...), nil
}

func (f *fakeAPI) CreateBooking(_ context.Context, _ string, req models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	f.mu.Lock()
	f.created = append(f.created, req)
	wait := f.createBlock
	started := f.createStarted
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if wait != nil {
		<-wait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

func (f *fakeAPI) ClaimCertificate(_ context.Context, _ string, req models.ClaimCertificateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims = append(f.claims, req)
	if f.claimErr != nil {
		return f.claimErr
	}
	f.certs = f.certsAfter
	return nil
}

func (f *fakeAPI) GetCertificates(_ context.Context, _, _ string) ([]models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certsCalls++
	return append([]models.Certificate{}, f.certs...), nil
}
