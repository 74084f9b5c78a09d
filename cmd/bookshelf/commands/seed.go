package commands

import (
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/app"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		created, err := app.Seed(ctx, cfg)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		if created {
			cmd.Printf("admin %q created\n", cfg.Seed.Username)
		} else {
			cmd.Printf("admin %q already present\n", cfg.Seed.Username)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
