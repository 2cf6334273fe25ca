package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/olekukonko/tablewriter"

	"github.com/felipemarinho97/cockpit-deploy/phases"
)

type OutputFormat string

const (
	OutputFormatWide  OutputFormat = "wide"
	OutputFormatShort OutputFormat = "short"
)

type ListPhasesOptions struct {
	Output OutputFormat
}

// ListPhases prints the phase catalog in execution order. No target is
// needed, the catalog is fixed at build time.
func (h *Handler) ListPhases(ctx context.Context, opts ListPhasesOptions) error {
	output := opts.Output

	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"#", "Phase", "Description", "Critical"}
	if output == "wide" {
		extra_headers := []string{"Timeout", "Document", "Completion Record"}
		header = append(header, extra_headers...)
	}
	table.SetHeader(header)
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

	for i, phase := range h.Registry.All() {
		critical := "no"
		if phase.Critical {
			critical = "yes"
		}

		row := []string{
			fmt.Sprint(i + 1),
			string(phase.Name),
			phase.Label,
			critical,
		}

		if output == "wide" {
			row = append(row, []string{
				*aws.String(phase.Timeout.String()),
				phase.Document(),
				phases.SentinelPath(phase.Name),
			}...)
		}

		table.Append(row)
	}

	table.Render()

	return nil
}
