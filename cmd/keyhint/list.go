package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/keyhint/internal/platform/sim"
)

var listFontsCmd = &cobra.Command{
	Use:   "list-fonts",
	Short: "List the font families usable as font_family",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		desk, err := desktop()
		if err != nil {
			return err
		}
		return printLines(cmd.OutOrStdout(), desk.Families())
	},
}

var listLayoutsCmd = &cobra.Command{
	Use:   "list-layouts",
	Short: "List the keyboard layouts usable as abc_layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		desk, err := desktop()
		if err != nil {
			return err
		}
		return printLines(cmd.OutOrStdout(), desk.List())
	},
}

// desktop loads the fixture named by --fixture, or an empty one.
func desktop() (*sim.Desktop, error) {
	if flags.fixture == "" {
		f, err := sim.Parse(nil)
		if err != nil {
			return nil, err
		}
		return sim.NewDesktop(f), nil
	}
	f, err := sim.Load(flags.fixture)
	if err != nil {
		return nil, err
	}
	return sim.NewDesktop(f), nil
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listFontsCmd, listLayoutsCmd)
}
