package commands

import (
	"context"
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Connect to PostgreSQL, apply pending migrations, seed the default admin
account (unless seed.skip is set) and serve the API until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(parent)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}

	a.Run(ctx)

	return nil
}
