// Package gate decides whether the current mini-app route may be shown or where to send the user instead.
package gate

import (
	"encoding/json"
	"strconv"
	"strings"

	"tablebook/models"
)

const (
	PhoneConfirmationPath = "/phoneConfirmation"
	OnboardingPath        = "/onboarding"
	FirstOnboardingStage  = "/onboarding/1"
)

var phoneExempt = []string{PhoneConfirmationPath, OnboardingPath, "/gdpr"}

// Paths containing any of these may be opened before onboarding is finished.
var onboardingAllowList = []string{
	"events",
	"restaurant",
	"booking",
	"certificates",
	"banquets",
	"tickets",
	"gastronomy",
}

// Gate runs the ordered redirect checks for one launch session.
type Gate struct {
	state models.GateState
}

// New restores a gate from persisted state.
func New(state models.GateState) *Gate {
	return &Gate{state: state}
}

// State returns the state to persist after an evaluation.
func (g *Gate) State() models.GateState {
	return g.state
}

// InitialCheckComplete reports whether a pass has reached the "render normally" branch.
func (g *Gate) InitialCheckComplete() bool {
	return g.state.InitialCheckComplete
}

// Evaluate runs the checks against in. Repeating identical inputs yields the same decision
// with Navigate=false.
func (g *Gate) Evaluate(in models.GateInput) models.GateResult {
	key := inputKey(in)
	if g.state.LastInputKey != "" && key == g.state.LastInputKey {
		return models.GateResult{
			RedirectDecision:     g.state.LastDecision,
			Navigate:             false,
			InitialCheckComplete: g.state.InitialCheckComplete,
		}
	}

	decision := g.decide(in)
	g.state.LastInputKey = key
	g.state.LastDecision = decision

	return models.GateResult{
		RedirectDecision:     decision,
		Navigate:             decision.Redirect,
		InitialCheckComplete: g.state.InitialCheckComplete,
	}
}

func (g *Gate) decide(in models.GateInput) models.RedirectDecision {
	if !g.state.DeepLinkDone {
		g.state.DeepLinkDone = true
		if in.StartParam != "" {
			link, _ := ParseDeepLink(in.StartParam)
			return models.RedirectDecision{
				Redirect: true,
				Path:     link.Path,
				Replace:  true,
				Reason:   models.ReasonDeepLink,
			}
		}
	}

	// Session not loaded yet: nothing to check against.
	if in.Authenticated && in.User != nil {
		if needsPhone(in) {
			return models.RedirectDecision{
				Redirect: true,
				Path:     PhoneConfirmationPath,
				State:    in.State,
				Reason:   models.ReasonPhoneConfirmation,
			}
		}
		if needsOnboarding(in) {
			return models.RedirectDecision{
				Redirect: true,
				Path:     FirstOnboardingStage,
				Replace:  true,
				Reason:   models.ReasonOnboarding,
			}
		}
	}

	g.state.InitialCheckComplete = true
	return models.RedirectDecision{}
}

func needsPhone(in models.GateInput) bool {
	if !in.User.CompleteOnboarding || in.User.HasPhone() {
		return false
	}
	for _, prefix := range phoneExempt {
		if hasPathPrefix(in.Path, prefix) {
			return false
		}
	}
	return true
}

func needsOnboarding(in models.GateInput) bool {
	if in.User.CompleteOnboarding || hasPathPrefix(in.Path, OnboardingPath) {
		return false
	}
	for _, fragment := range onboardingAllowList {
		if strings.Contains(in.Path, fragment) {
			return false
		}
	}
	return true
}

// hasPathPrefix matches whole path segments: /onboarding matches /onboarding/2 but not /onboardingX.
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func inputKey(in models.GateInput) string {
	var b strings.Builder
	b.WriteString(in.Path)
	b.WriteByte('?')
	b.WriteString(in.Search)
	b.WriteString("|sp=")
	b.WriteString(in.StartParam)
	b.WriteString("|auth=")
	b.WriteString(strconv.FormatBool(in.Authenticated))
	if in.User != nil {
		b.WriteString("|user=")
		b.WriteString(in.User.ID)
		b.WriteString("|phone=")
		b.WriteString(strconv.FormatBool(in.User.HasPhone()))
		b.WriteString("|onb=")
		b.WriteString(strconv.FormatBool(in.User.CompleteOnboarding))
	}
	if len(in.State) > 0 {
		// encoding/json sorts map keys, so equal states give equal keys.
		if raw, err := json.Marshal(in.State); err == nil {
			b.WriteString("|state=")
			b.Write(raw)
		}
	}
	return b.String()
}
