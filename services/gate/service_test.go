package gate

import (
	"context"
	"errors"
	"testing"

	"tablebook/models"
)

type memoryStateStore struct {
	states map[string]models.GateState
	saves  int
}

func (m *memoryStateStore) Load(_ context.Context, sessionID string) (models.GateState, error) {
	return m.states[sessionID], nil
}

func (m *memoryStateStore) Save(_ context.Context, sessionID string, state models.GateState) error {
	if m.states == nil {
		m.states = map[string]models.GateState{}
	}
	m.states[sessionID] = state
	m.saves++
	return nil
}

type stubProfiles struct {
	user *models.User
	err  error
}

func (s stubProfiles) GetProfile(context.Context, string) (*models.User, error) {
	return s.user, s.err
}

func TestDefaultGateService_Evaluate(t *testing.T) {
	store := &memoryStateStore{}
	svc := NewDefaultGateService(store, stubProfiles{user: newcomer()}, nil)
	ctx := context.Background()

	res, err := svc.Evaluate(ctx, "sid", "u1", models.GateInput{Path: "/", StartParam: "eventId_5"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Path != "/events/5?shared=true" {
		t.Fatalf("unexpected first decision %+v", res)
	}

	res, err = svc.Evaluate(ctx, "sid", "u1", models.GateInput{Path: "/profile", StartParam: "eventId_5"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Path != FirstOnboardingStage {
		t.Errorf("expected onboarding redirect, got %+v", res)
	}
	if !store.states["sid"].DeepLinkDone {
		t.Error("deep link flag was not persisted")
	}
}

func TestDefaultGateService_ProfileFailureSkipsChecks(t *testing.T) {
	store := &memoryStateStore{states: map[string]models.GateState{"sid": {DeepLinkDone: true}}}
	svc := NewDefaultGateService(store, stubProfiles{err: errors.New("mongo down")}, nil)

	res, err := svc.Evaluate(context.Background(), "sid", "u1", models.GateInput{Path: "/profile"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Redirect {
		t.Errorf("expected no redirect while the profile is unavailable, got %+v", res)
	}
}

func TestDefaultGateService_RequiresSession(t *testing.T) {
	svc := NewDefaultGateService(&memoryStateStore{}, stubProfiles{}, nil)
	if _, err := svc.Evaluate(context.Background(), "", "u1", models.GateInput{}); err == nil {
		t.Error("expected error for empty session id")
	}
}
