package main

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"daotask/internal/config"
	"daotask/internal/store"

	_ "modernc.org/sqlite"
)

func newMigrateCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	var inspect bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !inspect {
				st, err := store.Open(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				if err := st.Close(); err != nil {
					return err
				}
			}

			plan, err := readMigrationPlan(cfg.DBPath)
			if err != nil {
				return err
			}
			if out.structured() {
				return writeStructured(plan)
			}
			return writeMigrationPlan(plan, inspect)
		},
	}

	cmd.Flags().BoolVar(&inspect, "inspect", false, "show pending migrations without applying")
	cmd.Flags().BoolVar(&inspect, "dry-run", false, "alias for --inspect")
	return cmd
}

func readMigrationPlan(path string) (*store.MigrationStatus, error) {
	db, err := openRawDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	plan, err := store.MigrationPlan(db)
	if err != nil {
		return nil, fmt.Errorf("inspect migrations: %w", err)
	}
	return plan, nil
}

func writeMigrationPlan(plan *store.MigrationStatus, inspect bool) error {
	if !inspect {
		return writePlain("Migrations applied; schema version %d.\n", plan.CurrentVersion)
	}
	if err := writePlain("Current version: %d\nAvailable version: %d\n", plan.CurrentVersion, plan.AvailableVersion); err != nil {
		return err
	}
	if len(plan.Pending) == 0 {
		return writePlain("No pending migrations.\n")
	}
	if err := writePlain("Pending migrations: %d\n", len(plan.Pending)); err != nil {
		return err
	}
	for _, m := range plan.Pending {
		if err := writePlain("  %d: %s\n", m.Version, m.Description); err != nil {
			return err
		}
	}
	return nil
}

func openRawDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return sql.Open("sqlite", u.String())
}
