package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/felipemarinho97/cockpit-deploy/deploy"
)

type HistoryOptions struct {
	// Limit caps how many attempts are shown, zero shows all
	Limit int
	// All lists attempts for every target, not just the current one
	All bool
}

// History lists past execution attempts from the local journal, newest
// first. The journal is advisory, deployment decisions never read it.
func (h *Handler) History(ctx context.Context, opts HistoryOptions) error {
	if h.Journal == nil {
		return fmt.Errorf("execution journal is not available")
	}

	targetID := ""
	if !opts.All {
		target, err := h.Store.Load()
		if err == nil {
			targetID = target.ID
		}
	}

	entries, err := h.Journal.List(ctx, targetID, opts.Limit)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	for _, entry := range entries {
		row := []string{
			entry.Phase,
			entry.Outcome,
			entry.TargetID,
			entry.CommandID,
			entry.StartedAt.Local().Format(time.RFC3339),
			entry.FinishedAt.Sub(entry.StartedAt).Round(time.Second).String(),
		}
		if strings.Contains(row[1], string(deploy.OutcomeSuccess)) {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgGreenColor}})
		} else if strings.Contains(row[1], string(deploy.OutcomeTimeout)) {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgYellowColor}})
		} else {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgHiRedColor}})
		}
	}
	table.SetHeader([]string{
		"Phase",
		"Outcome",
		"Target",
		"Command_Id",
		"Started_At",
		"Duration",
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

	return nil
}
