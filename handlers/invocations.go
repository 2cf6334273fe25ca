package handlers

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/olekukonko/tablewriter"

	"github.com/felipemarinho97/cockpit-deploy/helpers"
	"github.com/felipemarinho97/cockpit-deploy/util"
)

type InvocationsOptions struct {
	// Limit caps how many invocations are shown, zero shows all
	Limit int
}

// Invocations lists the command invocations AWS has on file for the
// target, newest first. This is the remote view, History shows the
// local journal.
func (h *Handler) Invocations(ctx context.Context, opts InvocationsOptions) error {
	target, err := h.loadTarget()
	if err != nil {
		return err
	}

	invocations, err := helpers.ListInvocations(ctx, h.SSMClient, target.ID)
	if err != nil {
		return err
	}

	data := [][]string{}

	for _, invocation := range invocations {
		requested := ""
		if invocation.RequestedDateTime != nil {
			requested = invocation.RequestedDateTime.Local().Format(time.RFC3339)
		}
		data = append(data, []string{
			util.GetValue(invocation.DocumentName),
			string(invocation.Status),
			util.GetValue(invocation.CommandId),
			requested,
		})
	}
	sort.Slice(data, func(i, j int) bool {
		di := data[i][3]
		dj := data[j][3]
		return di > dj
	})
	if opts.Limit > 0 && len(data) > opts.Limit {
		data = data[:opts.Limit]
	}

	table := tablewriter.NewWriter(os.Stdout)
	for _, row := range data {
		if strings.Contains(row[1], string(types.CommandInvocationStatusSuccess)) {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgGreenColor}})
		} else if strings.Contains(row[1], string(types.CommandInvocationStatusInProgress)) || strings.Contains(row[1], string(types.CommandInvocationStatusPending)) {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgYellowColor}})
		} else {
			table.Rich(row, []tablewriter.Colors{{}, {tablewriter.Normal, tablewriter.FgHiRedColor}})
		}
	}
	table.SetHeader([]string{
		"Document",
		"Status",
		"Command_Id",
		"Requested_Time",
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
