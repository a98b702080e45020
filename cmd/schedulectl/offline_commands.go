package main

import (
	"fmt"
	"strings"
	"time"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/transport"

	"github.com/spf13/cobra"
)

func wallClockToday() domain.Date {
	return domain.DateOf(time.Now())
}

func parsePhantoms(raw string) (domain.RowOptions, bool, error) {
	var opts domain.RowOptions
	if strings.TrimSpace(raw) == "" {
		return opts, false, nil
	}
	for _, part := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "tasks":
			opts.AddTaskPhantoms = true
		case "categories":
			opts.AddCategoryPhantoms = true
		case "", "none":
		default:
			return opts, false, fmt.Errorf("--phantoms accepts tasks, categories or none, got %q", part)
		}
	}
	return opts, true, nil
}

func newRenderCommand() *cobra.Command {
	var phantoms string
	var today string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "render <snapshot.yaml>",
		Short: "Render the row structure of a job snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}
			day, err := resolveToday(today, snap, wallClockToday)
			if err != nil {
				return err
			}
			opts, set, err := parsePhantoms(phantoms)
			if err != nil {
				return err
			}
			if !set {
				opts = snap.Options
			}

			rows := transport.ToRowResponses(snap.rows(opts), day)
			if asJSON {
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  (event %s, today %s)\n", snap.Name, snap.EventDate, day)
			fmt.Fprintln(out, renderTable(structureHeaders, structureTableRows(rows, shouldColorize(out)), structureAligns))
			return nil
		},
	}
	cmd.Flags().StringVar(&phantoms, "phantoms", "", "Affordance rows to add: tasks,categories")
	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return skipConfig(cmd)
}

func newStatsCommand() *cobra.Command {
	var today string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <snapshot.yaml>...",
		Short: "Compute job and fleet statistics from snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules := make([]domain.JobSchedule, 0, len(args))
			var first *snapshot
			for _, path := range args {
				snap, err := loadSnapshot(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if first == nil {
					first = snap
				}
				schedules = append(schedules, snap.schedule())
			}
			day, err := resolveToday(today, first, wallClockToday)
			if err != nil {
				return err
			}

			fleet := transport.ToFleetStatsResponse(domain.ComputeFleetStats(schedules, day))
			if asJSON {
				return writeJSON(cmd, fleet)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(statsHeaders, fleetTableRows(fleet), statsAligns))
			return nil
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print stats as JSON")
	return skipConfig(cmd)
}
