package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/felipemarinho97/cockpit-deploy/deploy"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

// Resume walks the phase registry against the recorded target, probing
// each phase and running only what the target does not report complete.
func (h *Handler) Resume(ctx context.Context) error {
	target, err := h.loadTarget()
	if err != nil {
		return err
	}

	return h.resumeTarget(ctx, target)
}

func (h *Handler) resumeTarget(ctx context.Context, target state.Target) error {
	log := h.Logger

	log.Info(fmt.Sprintf("Resuming deployment on %s (%s)", target.ID, target.PublicAddress))

	report, err := h.planner().Resume(ctx, target)

	var phaseErr *deploy.PhaseError
	if errors.As(err, &phaseErr) {
		log.Error(fmt.Sprintf("Deployment halted: %s", phaseErr))
		fmt.Printf("Fix the failure and retry with: cockpit-deploy run-phase %s\n", phaseErr.Phase)
		return err
	}
	if err != nil {
		return err
	}

	for _, step := range report.Warnings() {
		log.Warn(fmt.Sprintf("Phase %s did not complete: %s", step.Phase.Name, step.Result.Details))
	}

	if executed := report.Executed(); len(executed) == 0 {
		log.Info("Nothing to do, every phase has already completed.")
	} else {
		log.Info(fmt.Sprintf("Deployment finished, %d phase(s) executed.", len(executed)))
	}

	fmt.Printf("Web console: %s\n", consoleURL(target))

	return nil
}
