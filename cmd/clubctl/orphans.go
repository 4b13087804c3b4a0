package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"monthly-club.backend/internal/config"
)

func (a *app) orphansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "Inspect and clean up processor objects left behind by failed saves",
	}

	var (
		listLimit int
		asJSON    bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List unresolved orphaned processor objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(func(cfg *config.Config, db *sql.DB) error {
				svc, err := a.orphans(cfg, db)
				if err != nil {
					return err
				}
				items, err := svc.List(cmd.Context(), listLimit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(items)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tKIND\tPROCESSOR ID\tREASON\tATTEMPTS\tCREATED")
				for _, o := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
						o.ID, o.Kind, o.ProcessorID, o.Reason, o.Attempts, o.CreatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
	list.Flags().IntVarP(&listLimit, "limit", "n", 50, "maximum rows to show")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	var batch int
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Delete unresolved orphans at the processor and mark them resolved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(func(cfg *config.Config, db *sql.DB) error {
				svc, err := a.orphans(cfg, db)
				if err != nil {
					return err
				}
				res, err := svc.Sweep(cmd.Context(), batch)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "resolved=%d kept=%d failed=%d\n", res.Resolved, res.Kept, res.Failed)
				return nil
			})
		},
	}
	sweep.Flags().IntVarP(&batch, "batch", "b", 50, "maximum orphans to process")

	cmd.AddCommand(list, sweep)
	return cmd
}

func (a *app) requirementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requirements <business-id>",
		Short: "Report whether a business must upload an identity document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			businessID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid business id %q", args[0])
			}
			return a.withDB(func(cfg *config.Config, db *sql.DB) error {
				svc, err := a.compliance(cfg, db)
				if err != nil {
					return err
				}
				needsID, err := svc.NeedsIdentityDocument(cmd.Context(), businessID)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "needs_id=%t\n", needsID)
				return nil
			})
		},
	}
}
