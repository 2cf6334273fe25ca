package deploy

import (
	"context"
	"fmt"

	"github.com/felipemarinho97/cockpit-deploy/log"
	"github.com/felipemarinho97/cockpit-deploy/phases"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

// Planner drives a deployment to completion, phase by phase. The target
// is asked before every phase, so interrupted deployments pick up where
// the target says they left off.
type Planner struct {
	Registry *phases.Registry
	Prober   Prober
	Executor Executor
	Logger   log.Logger
}

// Resume walks the catalog in order, probing each phase and executing
// the ones not yet complete. A failed or timed out critical phase stops
// the walk and is returned as a *PhaseError; non-critical failures are
// logged and the walk continues.
func (p *Planner) Resume(ctx context.Context, target state.Target) (Report, error) {
	var report Report

	for _, phase := range p.Registry.All() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if p.Prober.Probe(ctx, target, phase) == StatusCompleted {
			p.Logger.Info(fmt.Sprintf("phase %s already completed, skipping", phase.Name))
			report.Steps = append(report.Steps, Step{Phase: phase, Action: ActionSkipped})
			continue
		}

		p.Logger.Info(fmt.Sprintf("executing phase %s (%s)", phase.Name, phase.Label))

		result, err := p.Executor.Execute(ctx, target, phase)
		if err != nil {
			if ctx.Err() != nil {
				return report, err
			}

			// the command never reached a terminal state on the target,
			// treat it like any other failed attempt
			result = Result{Outcome: OutcomeFailure, Details: err.Error()}
		}

		switch {
		case result.Outcome == OutcomeSuccess:
			p.Logger.Info(fmt.Sprintf("phase %s completed", phase.Name))
			report.Steps = append(report.Steps, Step{Phase: phase, Action: ActionCompleted, Result: &result})

		case !phase.Critical:
			p.Logger.Warn(fmt.Sprintf("phase %s ended with %s, continuing: %s", phase.Name, result.Outcome, result.Details))
			report.Steps = append(report.Steps, Step{Phase: phase, Action: ActionWarned, Result: &result})

		default:
			p.Logger.Error(fmt.Sprintf("phase %s ended with %s: %s", phase.Name, result.Outcome, result.Details))
			report.Steps = append(report.Steps, Step{Phase: phase, Action: ActionFailed, Result: &result})

			return report, &PhaseError{Phase: phase.Name, Outcome: result.Outcome, Details: result.Details}
		}
	}

	return report, nil
}
