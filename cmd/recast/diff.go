package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"recast/internal/diagfmt"
	"recast/internal/fix"
)

var diffCmd = &cobra.Command{
	Use:   "diff [flags] [file.java|directory|-]",
	Short: "Print the fixes as a unified diff without writing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().IntP("context", "U", 3, "lines of context around each change")
	diffCmd.Flags().StringSlice("code", nil, "only fixes for these diagnostic codes (e.g. RULE4001)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	context, err := cmd.Flags().GetInt("context")
	if err != nil {
		return err
	}
	codes, err := readCodes(cmd)
	if err != nil {
		return err
	}
	target := targetArg(args)
	settings, err := buildRunSettings(cmd, target)
	if err != nil {
		return err
	}
	result, err := runPipeline(cmd, "diff", target, settings)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	printProblems(cmd.ErrOrStderr(), result)

	res, applyErr := fix.Apply(result.FileSet, result.Diagnostics(), fix.ApplyOptions{
		Mode:   fix.ApplyModeAll,
		Codes:  codes,
		DryRun: true,
	})
	if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) {
		return applyErr
	}
	printTimings(cmd.ErrOrStderr(), settings.opts.Timer)
	if res == nil || len(res.Buffers) == 0 {
		return nil
	}
	return diagfmt.Unified(cmd.OutOrStdout(), result.FileSet, res.Buffers, diagfmt.DiffOpts{
		Color:   useColor,
		Context: context,
	})
}
