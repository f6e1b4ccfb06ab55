package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/infrastructure/db/sqlite"
	"github.com/parkview/rental-system/internal/pkg/config"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), func(m *sqlite.Migrator) error {
					applied, err := m.Up(cmd.Context())
					if err != nil {
						return err
					}
					if len(applied) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
					}
					for _, v := range applied {
						fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), func(m *sqlite.Migrator) error {
					version, err := m.Down(cmd.Context())
					if err != nil {
						return err
					}
					if version == "" {
						fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), "rolled back", version)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), func(m *sqlite.Migrator) error {
					statuses, err := m.Status(cmd.Context())
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
					for _, s := range statuses {
						state, at := "pending", "-"
						if s.Applied {
							state = "applied"
							if s.AppliedAt != nil {
								at = s.AppliedAt.Format(time.RFC3339)
							}
						}
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
					}
					return w.Flush()
				})
			},
		},
	)
	return cmd
}

// openToolDB opens the database using only the DB_* settings.
func openToolDB(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.LoadTool(ctx, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	return sqlite.Open(sqlite.Config{
		Path:          cfg.DB.Path,
		MaxOpenConns:  cfg.DB.MaxOpenConns,
		BusyTimeoutMS: cfg.DB.BusyTimeoutMS,
	})
}

func withMigrator(ctx context.Context, fn func(*sqlite.Migrator) error) error {
	db, err := openToolDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sqlite.Close(db) }()
	return fn(sqlite.NewMigrator(db))
}
