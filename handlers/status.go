package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/felipemarinho97/cockpit-deploy/deploy"
	"github.com/felipemarinho97/cockpit-deploy/state"
)

// Status probes every phase on the recorded target and renders the
// result. The table reflects what the target reports right now, not
// what ran from this machine.
func (h *Handler) Status(ctx context.Context) error {
	target, err := h.Store.Load()
	if errors.Is(err, state.ErrNoTarget) {
		h.Logger.Info("No deployment target provisioned. Run 'cockpit-deploy' to create one.")
		return nil
	}
	if err != nil {
		return err
	}

	statuses := deploy.ProbeAll(ctx, h.Registry, h.prober(), target)

	fmt.Printf("Target ID: %s\n", target.ID)
	fmt.Printf("Public Address: %s\n\n", target.PublicAddress)

	data := [][]string{}
	for _, phase := range h.Registry.All() {
		critical := "no"
		if phase.Critical {
			critical = "yes"
		}
		data = append(data, []string{
			string(phase.Name),
			string(statuses[phase.Name]),
			critical,
			phase.Timeout.String(),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	for _, row := range data {
		if row[1] == string(deploy.StatusCompleted) {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgGreenColor}})
		} else {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgYellowColor}})
		}
	}
	table.SetHeader([]string{
		"Phase",
		"Status",
		"Critical",
		"Timeout",
	})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(true)
	table.SetBorder(false)
	table.SetTablePadding("\t") // pad with tabs
	table.SetNoWhiteSpace(true)
	table.Render()

	if next, ok := deploy.NextPhase(h.Registry, statuses); ok {
		fmt.Printf("\nNext phase: %s\n", next.Name)
	} else {
		fmt.Printf("\nAll phases completed. Web console: %s\n", consoleURL(target))
	}

	return nil
}
