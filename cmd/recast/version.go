package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"recast/internal/version"
)

// versionReport is the JSON shape of `recast version --format json`.
// Empty fields were not asked for.
type versionReport struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit,omitempty"`
	Modified  bool     `json:"modified,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
	GoVersion string   `json:"go_version,omitempty"`
	Recipes   []string `json:"recipes,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show recast build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "also show the Go toolchain and the built-in recipes")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	full, _ := flags.GetBool("full")
	hash, _ := flags.GetBool("hash")
	date, _ := flags.GetBool("date")
	format, _ := flags.GetString("format")

	rep, err := buildVersionReport(version.Read(), hash || full, date || full, full)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "pretty":
		writeVersionPretty(out, rep)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func buildVersionReport(info version.Info, hash, date, full bool) (versionReport, error) {
	rep := versionReport{Tool: "recast", Version: info.Version}
	if hash {
		rep.GitCommit = orUnknown(info.GitCommit)
		rep.Modified = info.Modified
	}
	if date {
		rep.BuildDate = orUnknown(info.BuildDate)
	}
	if full {
		rep.GoVersion = info.GoVersion
		reg, err := newRegistry()
		if err != nil {
			return rep, err
		}
		for _, r := range reg.All() {
			rep.Recipes = append(rep.Recipes, r.Name())
		}
	}
	return rep, nil
}

func writeVersionPretty(out io.Writer, rep versionReport) {
	v := rep.Version
	if useColor && v == version.Version {
		v = version.Colored()
	}
	fmt.Fprintf(out, "recast %s\n", v)
	if rep.GitCommit != "" {
		dirty := ""
		if rep.Modified {
			dirty = " (modified)"
		}
		fmt.Fprintf(out, "commit: %s%s\n", rep.GitCommit, dirty)
	}
	if rep.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", rep.BuildDate)
	}
	if rep.GoVersion != "" {
		fmt.Fprintf(out, "go:     %s\n", rep.GoVersion)
	}
	if len(rep.Recipes) > 0 {
		fmt.Fprintf(out, "recipes: %s\n", strings.Join(rep.Recipes, ", "))
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
