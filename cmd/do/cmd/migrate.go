package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/profile/internal/config"
	"github.com/templui/profile/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(database *sqlx.DB, driver string) error {
				err := db.RunMigrations(database.DB, driver)
				if err != nil {
					return err
				}
				return printVersion(cmd, database, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(database *sqlx.DB, driver string) error {
				err := db.MigrateDown(database.DB, driver)
				if err != nil {
					return err
				}
				return printVersion(cmd, database, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(database *sqlx.DB, driver string) error {
				return printVersion(cmd, database, driver)
			})
		},
	})

	return cmd
}

func withDB(fn func(database *sqlx.DB, driver string) error) error {
	cfg := config.Load()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	return fn(database, cfg.DBDriver)
}

func printVersion(cmd *cobra.Command, database *sqlx.DB, driver string) error {
	version, err := db.MigrationStatus(database.DB, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
