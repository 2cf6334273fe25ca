package handlers

import (
	"context"
	"fmt"

	"gopkg.in/validator.v2"

	"github.com/felipemarinho97/cockpit-deploy/deploy"
	"github.com/felipemarinho97/cockpit-deploy/phases"
)

type RunPhaseOptions struct {
	// Phase name to execute
	Phase string `validate:"nonzero"`
	// Force runs the phase even when the target reports it complete
	Force bool
}

// RunPhase executes a single phase on the recorded target. Unless Force
// is set, a phase the target already reports complete is left alone.
func (h *Handler) RunPhase(ctx context.Context, opts RunPhaseOptions) error {
	err := validator.Validate(opts)
	if err != nil {
		return err
	}

	phase, err := h.Registry.Lookup(phases.Name(opts.Phase))
	if err != nil {
		return fmt.Errorf("%w (known phases: %v)", err, h.Registry.Names())
	}

	target, err := h.loadTarget()
	if err != nil {
		return err
	}

	log := h.Logger

	if !opts.Force {
		if status := h.prober().Probe(ctx, target, phase); status == deploy.StatusCompleted {
			log.Info(fmt.Sprintf("Phase %s has already completed, use --force to run it again.", phase.Name))
			return nil
		}
	}

	log.Info(fmt.Sprintf("Running phase %s on %s..", phase.Name, target.ID))

	result, err := h.executor().Execute(ctx, target, phase)
	if err != nil {
		return err
	}

	if result.Outcome != deploy.OutcomeSuccess {
		return &deploy.PhaseError{Phase: phase.Name, Outcome: result.Outcome, Details: result.Details}
	}

	log.Info(fmt.Sprintf("Phase %s completed (command %s).", phase.Name, result.CommandID))

	return nil
}
