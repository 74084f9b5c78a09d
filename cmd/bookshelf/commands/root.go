package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Bookshelf - users and books behind a JWT-protected REST API",
	Long: `Bookshelf serves a REST API for registering users, issuing bearer tokens
and managing a catalogue of books. Book writes and role changes are
restricted to administrators.

Configuration is read from the file given by --config (yaml or .env) and
overridden by environment variables. Without --config only the environment
is read.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.New(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// signalContext is cancelled on SIGINT, SIGTERM or SIGHUP.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	interruptSignals := []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

	return signal.NotifyContext(parent, interruptSignals...)
}
