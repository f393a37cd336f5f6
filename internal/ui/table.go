package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/papapumpkin/orrery/internal/progress"
	"github.com/papapumpkin/orrery/internal/telemetry"
)

// StatusTable writes one row per world of snap to w, followed by a totals
// footer.
func StatusTable(w io.Writer, snap progress.Snapshot) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"World", "Done", "State", "Next"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, wp := range snap.Worlds {
		_, state := worldState(snap, wp.Name)
		if state == stateLocked && len(wp.Waiting) > 0 {
			state += " (needs " + strings.Join(wp.Waiting, ", ") + ")"
		}
		next := ""
		for _, l := range wp.Levels {
			if l.IsNext {
				next = fmt.Sprintf("level %d", l.Level)
			}
		}
		table.Append([]string{
			wp.Name,
			fmt.Sprintf("%d/%d", wp.Completed, wp.Total),
			state,
			next,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d worlds", len(snap.Worlds)),
		fmt.Sprintf("%d/%d", snap.TotalCompleted, snap.Total),
		"",
		"",
	})
	table.Render()
}

// EpochTable writes one row per recorded load: its short id, when it
// started, how long it ran and how many status changes it saw. Loads
// without an epoch_done event show "open" as their duration.
func EpochTable(w io.Writer, epochs []telemetry.Epoch) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Epoch", "Started", "Duration", "Changes", "Events"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, ep := range epochs {
		dur := "open"
		if !ep.Open() {
			dur = ep.End.Sub(ep.Start).Round(time.Second).String()
		}
		total := 0
		for _, n := range ep.Counts {
			total += n
		}
		id := ep.ID
		if i := strings.IndexByte(id, '-'); i > 0 {
			id = id[:i]
		}
		table.Append([]string{
			id,
			ep.Start.Local().Format(time.DateTime),
			dur,
			fmt.Sprintf("%d", ep.Counts[telemetry.KindStatusChange]),
			fmt.Sprintf("%d", total),
		})
	}
	table.Render()
}
