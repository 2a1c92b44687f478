package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keyhint/internal/app"
)

// flags holds the persistent flags shared by every command.
var flags struct {
	config   string
	platform string
	fixture  string
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:   "keyhint",
	Short: "Keyboard driven pointer control",
	Long: `keyhint labels the clickable elements of the front window so they can be
clicked by typing, and offers a grid mode that moves, drags and scrolls the
pointer from the keyboard. Run without a command it stays in the foreground.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runForeground(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Path to the configuration file (default $KEYHINT_CONFIG_PATH or ~/.config/keyhint/config.toml)")
	pf.StringVar(&flags.platform, "platform", app.PlatformTerm, "Platform to drive: sim or term")
	pf.StringVar(&flags.fixture, "fixture", "", "YAML desktop fixture for the sim and term platforms")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides log_level")
}

func options() app.Options {
	return app.Options{
		ConfigPath: flags.config,
		Platform:   flags.platform,
		Fixture:    flags.fixture,
		LogLevel:   flags.logLevel,
	}
}

func runForeground(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(options())
	if err != nil {
		return err
	}
	// Ensure cleanup on all exit paths
	defer application.Close()

	return application.Run(ctx)
}
