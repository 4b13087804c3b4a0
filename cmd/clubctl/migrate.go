package main

import (
	"database/sql"

	"github.com/spf13/cobra"

	"monthly-club.backend/internal/config"
	"monthly-club.backend/internal/infrastructure/datasources/postgres"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(func(_ *config.Config, db *sql.DB) error {
				if err := a.migrate(db, postgres.Up); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "migrations applied\n")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(func(_ *config.Config, db *sql.DB) error {
				if err := a.migrate(db, postgres.Down); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "rolled back one migration\n")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(func(_ *config.Config, db *sql.DB) error {
				v, dirty, err := a.version(db)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
				return nil
			})
		},
	})

	return cmd
}
