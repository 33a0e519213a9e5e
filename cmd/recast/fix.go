package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recast/internal/diag"
	"recast/internal/diagfmt"
	"recast/internal/driver"
	"recast/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.java|directory]",
	Short: "Apply recipe fixes to a source file or directory",
	Long:  "Run the recipes, collect the fixes they offer, and apply them according to the chosen strategy.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFix,
}

func init() {
	f := fixCmd.Flags()
	f.Bool("all", false, "apply all safe fixes")
	f.Bool("once", false, "apply the first available fix (default)")
	f.String("id", "", "apply fix with a specific identifier")
	f.StringSlice("code", nil, "only fixes for these diagnostic codes (e.g. RULE4001)")
	fixCmd.MarkFlagsMutuallyExclusive("all", "once", "id")
}

func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	f := cmd.Flags()
	all, _ := f.GetBool("all")
	id, _ := f.GetString("id")
	codes, err := readCodes(cmd)
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, TargetID: id, Codes: codes}
	switch {
	case id != "":
		opts.Mode = fix.ApplyModeID
	case all:
		opts.Mode = fix.ApplyModeAll
	}
	return opts, nil
}

func readCodes(cmd *cobra.Command) ([]diag.Code, error) {
	values, err := cmd.Flags().GetStringSlice("code")
	if err != nil {
		return nil, err
	}
	return fix.ParseCodes(values)
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	applyOpts, err := readApplyOptions(cmd)
	if err != nil {
		return err
	}
	target := targetArg(args)
	if target == stdinTarget {
		return fmt.Errorf("fix: stdin has nowhere to write back; use diff instead")
	}
	settings, err := buildRunSettings(cmd, target)
	if err != nil {
		return err
	}
	result, err := runPipeline(cmd, "fix", target, settings)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	printProblems(cmd.ErrOrStderr(), result)

	res, applyErr := fix.Apply(result.FileSet, result.Diagnostics(), applyOpts)
	if err := handleApplyResult(cmd.OutOrStdout(), res, applyErr); err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), settings.opts.Timer)
	return nil
}

// printProblems shows warnings and errors that came without a fix, so a
// skipped file is not silent.
func printProblems(w io.Writer, result *driver.Result) {
	var problems []diag.Diagnostic
	for _, d := range result.Diagnostics() {
		if d.Severity >= diag.SevWarning && len(d.Fixes) == 0 {
			problems = append(problems, d)
		}
	}
	if len(problems) == 0 {
		return
	}
	diagfmt.PrettyDiagnostics(w, problems, result.FileSet, diagfmt.PrettyOpts{Color: useColor})
}

// reportWriter remembers the first write error so a report can be printed
// without checking every line.
type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...any) {
	if r.err == nil {
		_, r.err = fmt.Fprintf(r.w, format, args...)
	}
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	noFixes := errors.Is(applyErr, fix.ErrNoFixes)
	if res == nil {
		if noFixes {
			_, err := fmt.Fprintln(out, "No applicable fixes found.")
			return err
		}
		return applyErr
	}

	r := &reportWriter{w: out}
	if len(res.Applied) > 0 {
		r.printf("Applied %d fix(es):\n", len(res.Applied))
		for _, a := range res.Applied {
			loc := cmp.Or(a.PrimaryPath, "(unknown location)")
			r.printf("  %s [%s] at %s (%d edits, %s)\n", a.Title, a.ID, loc, a.EditCount, a.Applicability)
		}
	}
	if len(res.FileChanges) > 0 {
		r.printf("Updated files:\n")
		for _, c := range res.FileChanges {
			r.printf("  %s (%d edits)\n", c.Path, c.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		r.printf("Skipped fixes:\n")
		for _, s := range res.Skipped {
			id := cmp.Or(s.ID, "(unnamed)")
			if s.Title != "" {
				r.printf("  %s [%s]: %s\n", s.Title, id, s.Reason)
			} else {
				r.printf("  [%s]: %s\n", id, s.Reason)
			}
		}
	}

	switch {
	case noFixes && len(res.Applied) == 0:
		r.printf("No applicable fixes found.\n")
	case applyErr != nil:
		return applyErr
	case len(res.Applied) == 0:
		r.printf("No fixes applied.\n")
	}
	return r.err
}
