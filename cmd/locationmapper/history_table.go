package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"locationmapper/internal/history"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// renderHistoryTable lays out one row per run, newest first, with a footer
// counting the runs that did not finish cleanly.
func renderHistoryTable(runs []history.Run, colorize bool) string {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Started", "Command", "Status", "Total", "Stages"})

	unhealthy := 0
	for _, run := range runs {
		if run.Status != history.StatusOK {
			unhealthy++
		}
		tw.AppendRow(table.Row{
			run.StartedAt.Local().Format(historyTimeLayout),
			run.Command,
			run.Status,
			fmt.Sprintf("%dms", run.Total.Milliseconds()),
			summarizeStages(run.Stages),
		})
	}
	tw.AppendFooter(table.Row{plural(len(runs), "run"), "", fmt.Sprintf("%d not ok", unhealthy)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Status", Transformer: statusTransformer(colorize)},
		{Name: "Total", Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Name: "Stages", WidthMax: 64},
	})
	return tw.Render()
}

func statusTransformer(colorize bool) text.Transformer {
	return func(val any) string {
		status, ok := val.(history.Status)
		if !ok {
			return fmt.Sprint(val)
		}
		if !colorize {
			return string(status)
		}
		switch status {
		case history.StatusOK:
			return text.Colors{text.FgGreen}.Sprint(status)
		case history.StatusAborted:
			return text.Colors{text.FgYellow}.Sprint(status)
		default:
			return text.Colors{text.FgRed}.Sprint(status)
		}
	}
}

// summarizeStages renders "Clean 12ms, Yarrrml 40ms (exit 1), Ldes skipped".
func summarizeStages(stages []history.StageRecord) string {
	title := cases.Title(language.Und)
	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		name := title.String(s.Name)
		switch {
		case s.Skipped:
			parts = append(parts, name+" skipped")
		case s.Error != "":
			parts = append(parts, fmt.Sprintf("%s %dms (exit %d)", name, s.DurationMS, s.ExitCode))
		default:
			parts = append(parts, fmt.Sprintf("%s %dms", name, s.DurationMS))
		}
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
