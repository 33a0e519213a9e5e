package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:       "cache [dir|clean]",
	Short:     "Show or clear the result cache",
	Long:      "With no argument or 'dir', print where cached results live. 'clean' removes them.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dir", "clean"},
	RunE:      runCache,
}

func runCache(cmd *cobra.Command, args []string) error {
	cache, err := openProjectCache()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 || args[0] == "dir" {
		fmt.Fprintln(out, cache.Dir())
		return nil
	}
	n, err := cache.DropAll()
	if err != nil {
		return fmt.Errorf("cache clean: %w", err)
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(out, "removed %d cached result(s) from %s\n", n, cache.Dir())
	}
	return nil
}

func isQuiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
