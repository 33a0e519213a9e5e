package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"recast/internal/driver"
	"recast/internal/observ"
	"recast/internal/rewrite"
	"recast/internal/rules/hideutil"
	"recast/internal/style"
)

// stdinTarget selects reading one compilation unit from stdin.
const stdinTarget = "-"

// stdinName is the virtual file name used for stdin input.
const stdinName = "<stdin>.java"

type runSettings struct {
	opts   driver.Options
	quiet  bool
	uiMode switchMode
}

// newRegistry lists every recipe the binary knows.
func newRegistry() (*rewrite.Registry, error) {
	return rewrite.NewRegistry(
		hideutil.NewRecipe(style.DefaultHideUtilityClassConstructor),
	)
}

// loadProjectConfig resolves --config, then $RECAST_CONFIG, then a project
// file found upward from target.
func loadProjectConfig(cmd *cobra.Command, target string) (*style.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("RECAST_CONFIG")
	}
	if path != "" {
		return style.LoadConfig(path)
	}
	start := target
	if target == stdinTarget {
		start = "."
	}
	found, ok, err := style.FindConfig(start)
	if err != nil {
		return nil, err
	}
	if !ok {
		root := start
		if info, statErr := os.Stat(start); statErr == nil && !info.IsDir() {
			root = filepath.Dir(start)
		}
		return style.DefaultConfig(root), nil
	}
	return style.LoadConfig(found)
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

// openProjectCache opens $RECAST_CACHE_DIR, or recast's dir under the user
// cache directory.
func openProjectCache() (*driver.DiskCache, error) {
	if dir := os.Getenv("RECAST_CACHE_DIR"); dir != "" {
		return driver.OpenDiskCacheAt(dir)
	}
	return driver.OpenDiskCache("recast")
}

// openCache returns nil when caching is disabled or the cache directory is
// unusable; the run then processes every file.
func openCache(cmd *cobra.Command) *driver.DiskCache {
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil || noCache || envBool("RECAST_NO_CACHE") {
		return nil
	}
	cache, err := openProjectCache()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
		return nil
	}
	return cache
}

// buildRunSettings collects everything a pipeline run needs from flags, the
// environment and the project file.
func buildRunSettings(cmd *cobra.Command, target string) (*runSettings, error) {
	pf := cmd.Root().PersistentFlags()

	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	jobs, err := pf.GetInt("jobs")
	if err != nil {
		return nil, err
	}
	if jobs == 0 {
		if v, convErr := strconv.Atoi(os.Getenv("RECAST_JOBS")); convErr == nil {
			jobs = v
		}
	}
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, err
	}
	showTimings, err := pf.GetBool("timings")
	if err != nil {
		return nil, err
	}
	uiValue, err := pf.GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := parseSwitch("ui", uiValue)
	if err != nil {
		return nil, err
	}
	names, err := pf.GetStringSlice("recipe")
	if err != nil {
		return nil, err
	}

	cfg, err := loadProjectConfig(cmd, target)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(names) == 0 {
		names = cfg.Recipes
	}
	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}
	recipes, err := registry.Select(names)
	if err != nil {
		return nil, err
	}

	opts := driver.Options{
		Recipes:        recipes,
		Config:         cfg,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Cache:          openCache(cmd),
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	return &runSettings{opts: opts, quiet: quiet, uiMode: mode}, nil
}

// runPipeline runs the recipes over target. A target of "-" reads one unit
// from stdin; the cache is bypassed for it.
func runPipeline(cmd *cobra.Command, title, target string, settings *runSettings) (*driver.Result, error) {
	ctx := cmd.Context()
	if target == stdinTarget {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		opts := settings.opts
		opts.Cache = nil
		return driver.RunSource(ctx, stdinName, content, opts)
	}
	if shouldUseTUI(settings.uiMode, settings.quiet) {
		return runWithUI(ctx, title, settings.opts, func(ctx context.Context, opts driver.Options) (*driver.Result, error) {
			return driver.Run(ctx, target, opts)
		})
	}
	return driver.Run(ctx, target, settings.opts)
}

func targetArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
