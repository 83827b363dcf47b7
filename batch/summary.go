// SPDX-License-Identifier: EPL-2.0

package batch

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary renders the per-job outcomes and batch totals as a table.
func Summary(stats Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Job", "Status", "Attempts", "Elapsed"})

	for _, res := range stats.Results {
		status := "ok"
		if res.Err != nil {
			status = fmt.Sprintf("failed: %v", res.Err)
		}
		tw.AppendRow(table.Row{
			res.Name,
			status,
			res.Attempts,
			res.Elapsed.Round(time.Millisecond),
		})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d total", stats.Total),
		fmt.Sprintf("%d ok / %d failed", stats.Succeeded, stats.Failed),
		fmt.Sprintf("%d retries", stats.Retries),
		stats.Elapsed.Round(time.Millisecond),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
