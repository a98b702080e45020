package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/transport"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
)

const uncategorizedLabel = "(uncategorized)"

var structureHeaders = []string{"Row", "Tasks", "Status", "Start", "End", "Alert"}

var structureAligns = []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}

// structureTableRows flattens rows into table cells. Depth follows the row
// kind so the tree reads top-down.
func structureTableRows(rows []transport.RowResponse, colorize bool) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		label := strings.Repeat("  ", rowDepth(r.Kind)) + rowLabel(r)
		if r.Kind == domain.RowSection && colorize {
			label = ansiBold + label + ansiReset
		}

		var count, status, start, end, alert string
		if r.TaskCount != nil {
			count = strconv.Itoa(*r.TaskCount)
		}
		if r.Task != nil {
			status = colorStatus(r.Task.ScheduleStatus, colorize)
			start = r.Task.StartDate.String()
			end = r.Task.EndDate.String()
			if r.Task.NeedsAlert {
				alert = alertMark(colorize)
			}
		} else if r.NeedsAlert {
			alert = alertMark(colorize)
		}
		out = append(out, []string{label, count, status, start, end, alert})
	}
	return out
}

func rowDepth(kind domain.RowKind) int {
	switch kind {
	case domain.RowSection:
		return 0
	case domain.RowStage:
		return 1
	case domain.RowCategory, domain.RowAddCategoryPhantom:
		return 2
	default:
		return 3
	}
}

func rowLabel(r transport.RowResponse) string {
	switch r.Kind {
	case domain.RowStage:
		return string(r.Stage)
	case domain.RowCategory:
		if r.Name == "" {
			return uncategorizedLabel
		}
		return r.Name
	case domain.RowAddTaskPhantom:
		return "+ add task"
	case domain.RowAddCategoryPhantom:
		return "+ add category"
	case domain.RowManualTask:
		return r.Name + " (manual)"
	default:
		return r.Name
	}
}

func colorStatus(status domain.ScheduleStatus, colorize bool) string {
	s := string(status)
	if !colorize {
		return s
	}
	switch status {
	case domain.StatusDelayed:
		return ansiRed + s + ansiReset
	case domain.StatusDone:
		return ansiGreen + s + ansiReset
	case domain.StatusInProgress:
		return ansiYellow + s + ansiReset
	default:
		return s
	}
}

func alertMark(colorize bool) string {
	if colorize {
		return ansiRed + "!" + ansiReset
	}
	return "!"
}

var statsHeaders = []string{"Job", "Event", "Total", "Done", "Pending", "In progress", "Delayed", "Unassigned", "No crew", "Progress"}

var statsAligns = []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

func statsTableRow(name string, event domain.Date, s transport.StatsResponse) []string {
	return []string{
		name,
		event.String(),
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Completed),
		strconv.Itoa(s.Pending),
		strconv.Itoa(s.InProgress),
		strconv.Itoa(s.Delayed),
		strconv.Itoa(s.Unassigned),
		strconv.Itoa(s.WithoutCrew),
		fmt.Sprintf("%d%%", s.Percentage),
	}
}

func fleetTableRows(fleet transport.FleetStatsResponse) [][]string {
	rows := make([][]string, 0, len(fleet.Jobs)+1)
	for _, j := range fleet.Jobs {
		rows = append(rows, statsTableRow(j.Name, j.EventDate, j.Stats))
	}
	rows = append(rows, statsTableRow("TOTAL", domain.NoDate, fleet.Totals))
	return rows
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
