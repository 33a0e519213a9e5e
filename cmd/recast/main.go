package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"recast/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "recast",
	Short: "Rule-based Java source rewriting",
	Long: `recast runs rewrite recipes over Java sources. It reports what each recipe
would change (check), shows it as a diff (diff) or applies it in place (fix).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
}

// exitError carries a process exit status without an error message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// cleanups run after the command finishes, in reverse order.
var cleanups []func()

func addCleanup(fn func()) { cleanups = append(cleanups, fn) }

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Long())

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file")
	pf.Int("jobs", 0, "max parallel workers (0=auto)")
	pf.String("config", "", "project file (default: recast.toml or recast.yaml found upward, or $RECAST_CONFIG)")
	pf.Bool("no-cache", false, "do not read or write the result cache")
	pf.StringSlice("recipe", nil, "run only these recipes (default: recipes.active from the project file, else all)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson); auto picks ndjson for .json/.ndjson files")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main loads .env and executes the root command.
// Findings reported by check exit with status 1; other failures print the error and exit with status 2.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	var exit exitError
	isExit := errors.As(err, &exit)
	commandFailed = err != nil && !isExit
	runCleanups()
	if err == nil {
		return
	}
	if isExit {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(2)
}

// setupCommand applies global flags before any subcommand runs.
func setupCommand(cmd *cobra.Command, _ []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	addCleanup(cleanupTrace)
	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	addCleanup(cleanupProf)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
