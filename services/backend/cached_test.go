package backend

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"tablebook/models"
)

type memoryListCache struct {
	days  map[string][]string
	slots map[string][]models.TimeSlot
	fail  bool
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{days: map[string][]string{}, slots: map[string][]models.TimeSlot{}}
}

func (m *memoryListCache) GetDays(_ context.Context, id string, lead int) ([]string, bool, error) {
	if m.fail {
		return nil, false, errors.New("redis down")
	}
	d, ok := m.days[id+strconv.Itoa(lead)]
	return d, ok, nil
}

func (m *memoryListCache) SetDays(_ context.Context, id string, lead int, days []string) error {
	if m.fail {
		return errors.New("redis down")
	}
	m.days[id+strconv.Itoa(lead)] = days
	return nil
}

func (m *memoryListCache) GetSlots(_ context.Context, id, date string, guests int) ([]models.TimeSlot, bool, error) {
	s, ok := m.slots[id+date+strconv.Itoa(guests)]
	return s, ok, nil
}

func (m *memoryListCache) SetSlots(_ context.Context, id, date string, guests int, slots []models.TimeSlot) error {
	m.slots[id+date+strconv.Itoa(guests)] = slots
	return nil
}

type countingAPI struct {
	BookingAPI
	daysCalls, slotsCalls int
	err                   error
}

func (c *countingAPI) GetAvailableDays(context.Context, string, string, int) ([]string, error) {
	c.daysCalls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"2026-10-21"}, nil
}

func (c *countingAPI) GetAvailableTimeSlots(context.Context, string, string, string, int) ([]models.TimeSlot, error) {
	c.slotsCalls++
	return []models.TimeSlot{{StartDatetime: "2026-10-21T19:00:00+03:00", EndDatetime: "2026-10-21T21:00:00+03:00"}}, nil
}

func TestCachedClient_ServesRepeatedListsFromCache(t *testing.T) {
	api := &countingAPI{}
	c := NewCachedClient(api, newMemoryListCache(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.GetAvailableDays(ctx, "tok", "77", 30); err != nil {
			t.Fatal(err)
		}
		if _, err := c.GetAvailableTimeSlots(ctx, "tok", "77", "2026-10-21", 2); err != nil {
			t.Fatal(err)
		}
	}
	if api.daysCalls != 1 || api.slotsCalls != 1 {
		t.Errorf("backend called days=%d slots=%d, want 1 each", api.daysCalls, api.slotsCalls)
	}

	if _, err := c.GetAvailableTimeSlots(ctx, "tok", "77", "2026-10-21", 3); err != nil {
		t.Fatal(err)
	}
	if api.slotsCalls != 2 {
		t.Error("a different party size must not hit the cached entry")
	}
}

func TestCachedClient_CacheFailureFallsThrough(t *testing.T) {
	api := &countingAPI{}
	cache := newMemoryListCache()
	cache.fail = true
	c := NewCachedClient(api, cache, nil)

	days, err := c.GetAvailableDays(context.Background(), "tok", "77", 30)
	if err != nil || len(days) != 1 {
		t.Fatalf("expected backend result, got %v %v", days, err)
	}

	api.err = errors.New("boom")
	if _, err := c.GetAvailableDays(context.Background(), "tok", "77", 30); err == nil {
		t.Error("backend error must be returned")
	}
}
