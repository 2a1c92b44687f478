package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/keyhint/internal/daemon"
)

var startDaemonCmd = &cobra.Command{
	Use:   "start-daemon",
	Short: "Install and start keyhint as a launchd agent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		agent, err := newAgent()
		if err != nil {
			return err
		}
		if err := agent.Start(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "started %s\n", agent.Label)
		return nil
	},
}

var stopDaemonCmd = &cobra.Command{
	Use:   "stop-daemon",
	Short: "Stop the launchd agent and remove it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		agent, err := newAgent()
		if err != nil {
			return err
		}
		if err := agent.Stop(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stopped %s\n", agent.Label)
		return nil
	},
}

var restartDaemonCmd = &cobra.Command{
	Use:   "restart-daemon",
	Short: "Restart the launchd agent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		agent, err := newAgent()
		if err != nil {
			return err
		}
		if err := agent.Restart(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restarted %s\n", agent.Label)
		return nil
	},
}

// newAgent describes this executable, run in the foreground with the
// current persistent flags.
func newAgent() (*daemon.Agent, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}
	return daemon.New(exe, agentArgs()...)
}

func agentArgs() []string {
	var args []string
	if flags.config != "" {
		args = append(args, "--config", flags.config)
	}
	if flags.platform != "" {
		args = append(args, "--platform", flags.platform)
	}
	if flags.fixture != "" {
		args = append(args, "--fixture", flags.fixture)
	}
	if flags.logLevel != "" {
		args = append(args, "--log-level", flags.logLevel)
	}
	return args
}

func init() {
	rootCmd.AddCommand(startDaemonCmd, stopDaemonCmd, restartDaemonCmd)
}
