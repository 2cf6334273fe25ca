package handlers

import (
	"context"
	"fmt"

	"github.com/felipemarinho97/cockpit-deploy/state"
)

// URL prints the web console address of the recorded target.
func (h *Handler) URL(ctx context.Context) error {
	target, err := h.loadTarget()
	if err != nil {
		return err
	}

	fmt.Println(consoleURL(target))

	return nil
}

func consoleURL(target state.Target) string {
	return fmt.Sprintf("https://%s:9090", target.PublicAddress)
}
