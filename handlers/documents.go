package handlers

import (
	"context"
	"fmt"

	"github.com/felipemarinho97/cockpit-deploy/helpers"
	"github.com/felipemarinho97/cockpit-deploy/phases"
)

// RegisterDocuments renders and registers the SSM command document of
// every phase in the catalog. Existing documents are updated in place,
// so edited phase scripts ship on the next run.
func (h *Handler) RegisterDocuments(ctx context.Context) error {
	for _, phase := range h.Registry.All() {
		content, err := phases.RenderDocument(phase)
		if err != nil {
			return err
		}

		err = helpers.EnsureDocument(ctx, h.SSMClient, h.Logger, phase.Document(), content)
		if err != nil {
			return fmt.Errorf("error registering document for phase %s: %w", phase.Name, err)
		}
	}

	h.Logger.Info(fmt.Sprintf("%d command documents registered.", len(h.Registry.All())))

	return nil
}
