package commands

import (
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/internal/pkg/pgtools"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the embedded goose migrations.

Subcommands:
  up      - Apply pending migrations (up to db.version when set)
  down    - Roll back the latest migration
  status  - Print the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations, up to db.version when it is set.

db.reload is ignored here: this command never rolls back applied migrations.
Use "bookshelf migrate down" for that.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := pgtools.ApplyMigration(upConfig(cfg.PostgresDB)); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}

		return printVersion(cmd)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := pgtools.RollbackMigration(cfg.PostgresDB); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}

		return printVersion(cmd)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printVersion(cmd)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

// upConfig drops db.reload so that "migrate up" only moves forward.
func upConfig(cfg config.PostgresDB) config.PostgresDB {
	cfg.Reload = false

	return cfg
}

func printVersion(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := pgtools.MigrationVersion(cfg.PostgresDB)
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}

	cmd.Printf("schema version: %d\n", v)

	return nil
}
