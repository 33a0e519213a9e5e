package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// useColor is resolved once per run by setupColor.
var useColor bool

func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := parseSwitch("color", value)
	if err != nil {
		return err
	}
	useColor = mode.enabled(func() bool {
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
	})
	color.NoColor = !useColor
	return nil
}
