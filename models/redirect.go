package models

// GateInput is everything the redirect gate looks at on one evaluation.
type GateInput struct {
	Path          string         `json:"path"`
	Search        string         `json:"search,omitempty"`
	State         map[string]any `json:"state,omitempty"`
	StartParam    string         `json:"start_param,omitempty"`
	Authenticated bool           `json:"-"`
	User          *User          `json:"-"`
}

// RedirectReason tells which rule produced a decision.
type RedirectReason string

const (
	ReasonNone              RedirectReason = ""
	ReasonDeepLink          RedirectReason = "deep_link"
	ReasonPhoneConfirmation RedirectReason = "phone_confirmation"
	ReasonOnboarding        RedirectReason = "onboarding"
)

// RedirectDecision is a destination plus optional navigation state.
type RedirectDecision struct {
	Redirect bool           `json:"redirect"`
	Path     string         `json:"path,omitempty"`
	Replace  bool           `json:"replace,omitempty"`
	State    map[string]any `json:"state,omitempty"`
	Reason   RedirectReason `json:"reason,omitempty"`
}

// GateResult is returned for every evaluation. Navigate is false when the decision repeats
// the previous one for identical inputs.
type GateResult struct {
	RedirectDecision
	Navigate             bool `json:"navigate"`
	InitialCheckComplete bool `json:"initial_check_complete"`
}

// GateState is persisted per launch session between evaluations.
type GateState struct {
	DeepLinkDone         bool             `json:"deep_link_done"`
	InitialCheckComplete bool             `json:"initial_check_complete"`
	LastInputKey         string           `json:"last_input_key,omitempty"`
	LastDecision         RedirectDecision `json:"last_decision"`
}
