package cmd

import (
	"database/sql"

	"github.com/spf13/cobra"
	"github.com/toucann/taskengine/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	cmd.AddCommand(migrateSubCmd("up", "Apply all pending migrations", db.RunMigrations))
	cmd.AddCommand(migrateSubCmd("down", "Roll back the most recent migration", db.MigrateDown))
	cmd.AddCommand(migrateSubCmd("status", "Show applied and pending migrations", db.MigrationStatus))
	return cmd
}

func migrateSubCmd(use, short string, run func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			defer flush()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return run(database.DB, cfg.DBDriver)
		},
	}
}
