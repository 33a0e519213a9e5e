package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"recast/internal/diag"
	"recast/internal/diagfmt"
	"recast/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.java|directory|-]",
	Short: "Report what the recipes would change",
	Long: `Run every selected recipe over the target without touching files.
Each class a recipe would rewrite is reported with its fix. The exit status is 1
when anything was found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show fix previews (implies --suggest)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output (same as --path-mode absolute)")
	checkCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	checkCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
}

type checkOptions struct {
	format    string
	withNotes bool
	suggest   bool
	preview   bool
	pathMode  diagfmt.PathMode
	minSev    diag.Severity
}

func readCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	var opts checkOptions
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(format)
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown format: %s", format)
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, err
	}
	if opts.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return opts, err
	}
	if opts.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return opts, err
	}
	if opts.preview {
		opts.suggest = true
	}
	pathMode, _ := cmd.Flags().GetString("path-mode")
	if opts.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return opts, err
	}
	if fullPath, _ := cmd.Flags().GetBool("fullpath"); fullPath {
		opts.pathMode = diagfmt.PathModeAbsolute
	}
	minSev, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return opts, err
	}
	if opts.minSev, err = diag.ParseSeverity(minSev); err != nil {
		return opts, err
	}
	return opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	opts, err := readCheckOptions(cmd)
	if err != nil {
		return err
	}
	target := targetArg(args)
	settings, err := buildRunSettings(cmd, target)
	if err != nil {
		return err
	}
	result, runErr := runPipeline(cmd, "check", target, settings)
	if result == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	diagnostics := diag.AtLeast(result.Diagnostics(), opts.minSev)
	if err := writeDiagnostics(out, diagnostics, result, opts, settings.opts.MaxDiagnostics); err != nil {
		return err
	}
	if opts.format == "pretty" && !settings.quiet {
		printCheckSummary(out, result)
	}
	printTimings(cmd.ErrOrStderr(), settings.opts.Timer)

	if runErr != nil {
		return runErr
	}
	if result.Findings() > 0 || result.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}

func writeDiagnostics(out io.Writer, diagnostics []diag.Diagnostic, result *driver.Result, opts checkOptions, max int) error {
	switch opts.format {
	case "json":
		return diagfmt.JSON(out, diagnostics, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     opts.suggest,
			IncludePreviews:  opts.preview,
			Max:              max,
		})
	case "short":
		text := diag.FormatShortDiagnostics(diagnostics, result.FileSet, opts.withNotes)
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(out, text)
		return err
	default:
		diagfmt.PrettyDiagnostics(out, diagnostics, result.FileSet, diagfmt.PrettyOpts{
			Color:       useColor,
			Context:     1,
			PathMode:    opts.pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   opts.suggest,
			ShowPreview: opts.preview,
		})
		return nil
	}
}

func printCheckSummary(out io.Writer, result *driver.Result) {
	var changed, cached int
	for _, f := range result.Files {
		if f.Changed() {
			changed++
		}
		if f.Cached {
			cached++
		}
	}
	fmt.Fprintf(out, "%d file(s) checked, %d would change", len(result.Files), changed)
	if cached > 0 {
		fmt.Fprintf(out, ", %d cached", cached)
	}
	fmt.Fprintf(out, ", %d finding(s)\n", result.Findings())
	if n := result.Dropped(); n > 0 {
		fmt.Fprintf(out, "%d diagnostic(s) over --max-diagnostics not shown\n", n)
	}
}
