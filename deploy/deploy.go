// Package deploy drives the phase lifecycle against a provisioned
// target. The target itself is the only source of truth for phase
// completion: nothing in this package trusts local state to decide
// whether work already happened.
package deploy

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/felipemarinho97/cockpit-deploy/phases"
)

// Status is the derived completion state of a phase on a target. Probe
// failures of any kind report not-started, so the worst case is a
// redundant run of an idempotent phase.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusNotStarted Status = "not-started"
)

// Outcome classifies a finished execution attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
)

// Result describes one finished execution attempt.
type Result struct {
	Outcome   Outcome
	CommandID string
	Details   string
	Polls     int
}

// ExecutionRecord is the journal row describing a finished attempt.
type ExecutionRecord struct {
	TargetID   string
	Phase      string
	CommandID  string
	Outcome    Outcome
	Details    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// PhaseError reports a critical phase that failed or timed out, aborting
// the deployment.
type PhaseError struct {
	Phase   phases.Name
	Outcome Outcome
	Details string
}

func (e *PhaseError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("phase %s: %s", e.Phase, e.Outcome)
	}

	return fmt.Sprintf("phase %s: %s: %s", e.Phase, e.Outcome, e.Details)
}

// Action says what the planner did with a phase during a resume pass.
type Action string

const (
	ActionSkipped   Action = "skipped"
	ActionCompleted Action = "completed"
	ActionWarned    Action = "warned"
	ActionFailed    Action = "failed"
)

// Step is the planner's record of one phase during a resume pass.
type Step struct {
	Phase  phases.Phase
	Action Action
	Result *Result
}

// Report summarizes a resume pass.
type Report struct {
	Steps []Step
}

// Executed returns the steps where a command actually ran on the target.
func (r Report) Executed() []Step {
	return lo.Filter(r.Steps, func(s Step, _ int) bool {
		return s.Action != ActionSkipped
	})
}

// Warnings returns the non-critical steps that failed.
func (r Report) Warnings() []Step {
	return lo.Filter(r.Steps, func(s Step, _ int) bool {
		return s.Action == ActionWarned
	})
}

// NextPhase returns the first phase of the catalog not yet completed on
// the target. ok is false when every phase is complete.
func NextPhase(registry *phases.Registry, statuses map[phases.Name]Status) (phase phases.Phase, ok bool) {
	for _, p := range registry.All() {
		if statuses[p.Name] != StatusCompleted {
			return p, true
		}
	}

	return phases.Phase{}, false
}
