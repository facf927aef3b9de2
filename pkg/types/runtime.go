package types

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// RunContext carries the per-invocation state every transform needs: the run
// timestamp, a ULID invocation id for audit traceability, and the operator's
// full-rebuild signal. It is passed explicitly rather than inferred from
// ambient state.
type RunContext struct {
	RunID       string
	RunTime     time.Time
	FullRefresh bool
}

// NewRunContext creates a run context stamped at now.
func NewRunContext(now time.Time, fullRefresh bool) RunContext {
	return RunContext{
		RunID:       ulid.Make().String(),
		RunTime:     now.UTC(),
		FullRefresh: fullRefresh,
	}
}

// Violation is one advisory data-quality finding.
type Violation struct {
	Check         string        `json:"check"`
	Severity      CheckSeverity `json:"severity"`
	CountryCode   string        `json:"countryCode,omitempty"`
	ReferenceYear int           `json:"referenceYear,omitempty"`
	Message       string        `json:"message"`
	ObservedAt    time.Time     `json:"observedAt"`
}
