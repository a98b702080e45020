package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"studio_backend/internal/scheduling/transport"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func parseJobID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid job id %q", raw)
	}
	return id, nil
}

func newStructureCommand(ctx *commandContext) *cobra.Command {
	var phantoms string
	var today string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "structure <job-id>",
		Short: "Show the live row structure of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			if _, _, err := parsePhantoms(phantoms); err != nil {
				return err
			}
			query := url.Values{}
			if phantoms != "" {
				query.Set("phantoms", phantoms)
			}
			if today != "" {
				query.Set("today", today)
			}

			return ctx.withClient(func(client *apiClient) error {
				var structure transport.StructureResponse
				if err := client.do(cmd.Context(), http.MethodGet, "/jobs/"+jobID.String()+"/structure", query, &structure); err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, structure)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  (event %s, today %s, token %d)\n", structure.Name, structure.EventDate, structure.Today, structure.Token)
				if !structure.CatalogLoaded {
					fmt.Fprintln(out, "catalog unavailable: every task is shown as unclassified")
				}
				fmt.Fprintln(out, renderTable(structureHeaders, structureTableRows(structure.Rows, shouldColorize(out)), structureAligns))
				fmt.Fprintln(out, renderTable(statsHeaders, [][]string{statsTableRow(structure.Name, structure.EventDate, structure.Stats)}, statsAligns))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&phantoms, "phantoms", "", "Affordance rows to add: tasks,categories")
	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the response as JSON")
	return cmd
}

func newFleetCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Show progress across every job of the studio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiClient) error {
				var fleet transport.FleetStatsResponse
				if err := client.do(cmd.Context(), http.MethodGet, "/fleet", nil, &fleet); err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, fleet)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "today %s\n", fleet.Today)
				fmt.Fprintln(out, renderTable(statsHeaders, fleetTableRows(fleet), statsAligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the response as JSON")
	return cmd
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "sync <job-id>",
		Short: "Create schedule entries for a job's approved order items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			path := "/jobs/" + jobID.String() + "/sync"

			return ctx.withClient(func(client *apiClient) error {
				out := cmd.OutOrStdout()
				if async {
					var queued transport.SyncQueuedResponse
					if err := client.do(cmd.Context(), http.MethodPost, path, url.Values{"async": {"true"}}, &queued); err != nil {
						return err
					}
					fmt.Fprintf(out, "sync %s for job %s\n", queued.Status, queued.JobID)
					return nil
				}

				var result transport.SyncResponse
				err := client.do(cmd.Context(), http.MethodPost, path, nil, &result)
				if isStatus(err, http.StatusConflict) {
					fmt.Fprintln(out, "a newer sync of this job took over; nothing to do")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "created %d, updated %d, skipped %d (token %d)\n", result.Created, result.Updated, result.Skipped, result.Token)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&async, "async", false, "Queue the sync for the background worker")
	return cmd
}
