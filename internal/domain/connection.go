package domain

import "time"

// Category is a family of upstream endpoints probed together.
type Category string

const (
	CategoryEmailSends     Category = "email-sends"
	CategoryTrackingEvents Category = "tracking-events"
)

// AuthResult is what the token manager reports for one dashboard request.
type AuthResult struct {
	Authenticated bool
	ManualToken   bool
	Reason        string
}

type ProbeOutcome string

const (
	ProbeOutcomeHit   ProbeOutcome = "hit"
	ProbeEmpty        ProbeOutcome = "empty"
	ProbeHTTPError    ProbeOutcome = "http_error"
	ProbeNetworkError ProbeOutcome = "network_error"
	ProbeMalformed    ProbeOutcome = "malformed_json"
	ProbeUnauthorized ProbeOutcome = "unauthorized"
	ProbeSkipped      ProbeOutcome = "skipped"
)

// ProbeAttempt records one candidate endpoint call.
type ProbeAttempt struct {
	Description string        `json:"description"`
	URL         string        `json:"url"`
	StatusCode  int           `json:"statusCode,omitempty"`
	Outcome     ProbeOutcome  `json:"outcome"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"durationNs"`
}

// ProbeHit is the first usable upstream response for a category. Body is
// passed through untouched.
type ProbeHit struct {
	Category    Category       `json:"category"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	ItemCount   int            `json:"itemCount"`
	Body        map[string]any `json:"-"`
}

// ProbeReport is the result of walking one category's candidate list. Hit is
// nil when every candidate failed.
type ProbeReport struct {
	Category  Category       `json:"category"`
	Hit       *ProbeHit      `json:"hit,omitempty"`
	Attempts  []ProbeAttempt `json:"attempts"`
	StartedAt time.Time      `json:"startedAt"`
	Duration  time.Duration  `json:"durationNs"`
}

type ProbeResults struct {
	Sends    *ProbeReport
	Tracking *ProbeReport
}

// HasData reports whether at least one category produced a hit.
func (r ProbeResults) HasData() bool {
	return (r.Sends != nil && r.Sends.Hit != nil) || (r.Tracking != nil && r.Tracking.Hit != nil)
}

// ConnectionDiagnostics is the in-memory view of the upstream connection
// served to operators.
type ConnectionDiagnostics struct {
	Configured     bool                      `json:"configured"`
	MissingConfig  []string                  `json:"missingConfig,omitempty"`
	ManualToken    bool                      `json:"manualToken"`
	Authenticated  bool                      `json:"authenticated"`
	TokenExpiresAt *time.Time                `json:"tokenExpiresAt,omitempty"`
	LastAuthError  string                    `json:"lastAuthError,omitempty"`
	LastAuthAt     *time.Time                `json:"lastAuthAt,omitempty"`
	CatalogVersion string                    `json:"catalogVersion"`
	LastProbes     map[Category]*ProbeReport `json:"lastProbes"`
}
