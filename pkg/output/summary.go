package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// writeSummary renders the end-of-run summary shared by the human and
// progress formatters
func writeSummary(w io.Writer, report *models.SortReport) {
	verb := "Sort"
	if report.DryRun {
		verb = "Dry-run"
	}
	fmt.Fprintf(w, "\n%s of %s completed in %s\n\n", verb, report.RootPath, report.Duration.Round(time.Millisecond))

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"", "Count"})
	tw.AppendRow(table.Row{"Files scanned", humanize.Comma(int64(report.Stats.FilesScanned.Load()))})
	tw.AppendRow(table.Row{"Directories left in place", humanize.Comma(int64(report.Stats.DirsScanned.Load()))})
	if report.DryRun {
		tw.AppendRow(table.Row{"Files to move", humanize.Comma(int64(report.Stats.FilesPlanned.Load()))})
	} else {
		tw.AppendRow(table.Row{"Files moved", humanize.Comma(int64(report.Stats.FilesMoved.Load()))})
	}
	tw.AppendRow(table.Row{"Files skipped", humanize.Comma(int64(report.Stats.FilesSkipped.Load()))})
	tw.AppendRow(table.Row{"Files failed", humanize.Comma(int64(report.Stats.FilesFailed.Load()))})
	tw.AppendRow(table.Row{"Category dirs created", humanize.Comma(int64(report.Stats.DirsCreated.Load()))})
	tw.AppendRow(table.Row{"Data moved", humanize.Bytes(uint64(report.Stats.BytesMoved.Load()))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	fmt.Fprintln(w, tw.Render())

	if moved := categoryCounts(report); len(moved) > 0 {
		ct := table.NewWriter()
		ct.SetStyle(table.StyleRounded)
		ct.AppendHeader(table.Row{"Category", "Files", "Size"})
		for _, category := range models.Categories() {
			c, ok := moved[category]
			if !ok {
				continue
			}
			ct.AppendRow(table.Row{string(category), humanize.Comma(int64(c.files)), humanize.Bytes(uint64(c.bytes))})
		}
		ct.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
		})
		fmt.Fprintf(w, "\n%s\n", ct.Render())
	}

	fmt.Fprintf(w, "\nStatus: %s\n", report.Status)

	if len(report.Failures) > 0 {
		ft := table.NewWriter()
		ft.SetStyle(table.StyleRounded)
		ft.AppendHeader(table.Row{"File", "Stage", "Reason"})
		for _, failure := range report.Failures {
			ft.AppendRow(table.Row{failure.Name, failure.Stage, failure.Reason})
		}
		fmt.Fprintf(w, "\nFailures:\n%s\n", ft.Render())
	}
}

type categoryCount struct {
	files int
	bytes int64
}

// categoryCounts tallies moved (or planned) files per category
func categoryCounts(report *models.SortReport) map[models.Category]categoryCount {
	counts := make(map[models.Category]categoryCount)
	for _, op := range report.Operations {
		if op.Outcome != models.OutcomeMoved && op.Outcome != models.OutcomePlanned {
			continue
		}
		c := counts[op.Category]
		c.files++
		if op.Entry != nil {
			c.bytes += op.Entry.Size
		}
		counts[op.Category] = c
	}
	return counts
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
