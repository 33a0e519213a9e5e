package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recast/internal/fix"
	"recast/internal/rules/hideutil"
	"recast/internal/trace"
	"recast/internal/version"
)

func TestReadModes(t *testing.T) {
	cases := []struct {
		in   string
		want switchMode
		err  bool
	}{
		{"", modeAuto, false},
		{"Always", modeOn, false},
		{" never ", modeOff, false},
		{"ON", modeOn, false},
		{"off", modeOff, false},
		{"sometimes", modeAuto, true},
	}
	for _, tc := range cases {
		got, err := parseSwitch("ui", tc.in)
		if (err != nil) != tc.err || got != tc.want {
			t.Fatalf("parseSwitch(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := parseSwitch("color", "tui"); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("error should name the flag: %v", err)
	}
	if shouldUseTUI(modeOff, false) || !shouldUseTUI(modeOn, true) {
		t.Fatalf("explicit ui modes must win")
	}
	if shouldUseTUI(modeAuto, true) {
		t.Fatalf("quiet must disable the auto ui")
	}
}

func TestHandleApplyResult(t *testing.T) {
	var out bytes.Buffer
	res := &fix.ApplyResult{
		Applied:     []fix.AppliedFix{{ID: "RULE4001:Util.java:Util", Title: "hide constructor", PrimaryPath: "Util.java", EditCount: 1}},
		FileChanges: []fix.FileChange{{Path: "Util.java", EditCount: 1}},
		Skipped:     []fix.SkippedFix{{ID: "x", Reason: "conflict"}},
	}
	if err := handleApplyResult(&out, res, nil); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Applied 1 fix(es):", "[RULE4001:Util.java:Util] at Util.java (1 edits", "Updated files:\n  Util.java (1 edits)", "Skipped fixes:\n  [x]: conflict"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := handleApplyResult(&out, &fix.ApplyResult{}, fix.ErrNoFixes); err != nil {
		t.Fatal(err)
	}
	if out.String() != "No applicable fixes found.\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestRenderRecipes(t *testing.T) {
	registry, err := newRegistry()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	renderRecipesPretty(&out, registry.WithTag("rspec-1118"), false)
	if !strings.HasPrefix(out.String(), "hide-utility-class-constructor [RSPEC-1118]\n") {
		t.Fatalf("unexpected listing:\n%s", out.String())
	}
	out.Reset()
	renderRecipesPretty(&out, registry.WithTag("nope"), false)
	if out.String() != "no recipes\n" {
		t.Fatalf("got %q", out.String())
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RECAST_CONFIG", "")
	t.Setenv("RECAST_CACHE_DIR", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--color", "off", "--ui", "off", "--no-cache"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	runCleanups()
	return out.String(), err
}

const utilSource = "public class Util {\n    public static int one() { return 1; }\n}\n"

func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Util.java")
	if err := os.WriteFile(path, []byte(utilSource), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "check", "--format", "short", root)
	var exit exitError
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(out, "RULE4001") {
		t.Fatalf("missing finding:\n%s", out)
	}
}

func TestFixCommandRewritesFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Util.java")
	if err := os.WriteFile(path, []byte(utilSource), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "fix", "--all", root)
	if err != nil {
		t.Fatalf("fix: %v\n%s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "private Util() {}") {
		t.Fatalf("file not rewritten:\n%s", data)
	}
	if _, err := execute(t, "", "fix", "-"); err == nil {
		t.Fatalf("fix must reject stdin")
	}
}

func TestDiffCommandFromStdin(t *testing.T) {
	out, err := execute(t, utilSource, "diff", "-")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "+    private Util() {}") {
		t.Fatalf("unexpected diff:\n%s", out)
	}
}

func TestVersionReport(t *testing.T) {
	info := version.Info{Version: "1.2.3", GoVersion: "go1.25.1", Modified: true}
	rep, err := buildVersionReport(info, true, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if rep.GitCommit != "unknown" || !rep.Modified || rep.BuildDate != "" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if len(rep.Recipes) != 1 || rep.Recipes[0] != hideutil.RecipeName {
		t.Fatalf("recipes = %v", rep.Recipes)
	}

	var out bytes.Buffer
	writeVersionPretty(&out, versionReport{Version: "1.2.3", GitCommit: "abc", Modified: true})
	if got := out.String(); got != "recast 1.2.3\ncommit: abc (modified)\n" {
		t.Fatalf("pretty = %q", got)
	}
}

func TestReadTraceConfig(t *testing.T) {
	pf := rootCmd.PersistentFlags()
	set := func(name, value string) {
		old := pf.Lookup(name).Value.String()
		if err := pf.Set(name, value); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = pf.Set(name, old) })
	}

	set("trace", "run.ndjson")
	cfg, err := readTraceConfig(rootCmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != trace.LevelPhase || cfg.Mode != trace.ModeStream || cfg.OutputPath != "run.ndjson" {
		t.Fatalf("bare --trace should trace phases to the file: %+v", cfg)
	}

	set("trace-format", "yaml")
	if _, err := readTraceConfig(rootCmd); err == nil {
		t.Fatal("unknown trace format must fail")
	}
}

func TestCacheCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Clean.java"), []byte("class Clean { int n; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	run := func(args ...string) error {
		t.Helper()
		out.Reset()
		t.Setenv("RECAST_CACHE_DIR", dir)
		rootCmd.SetArgs(append([]string{"--color", "off", "--ui", "off", "--no-cache=false"}, args...))
		err := rootCmd.ExecuteContext(context.Background())
		runCleanups()
		return err
	}

	if err := run("check", root); err != nil {
		t.Fatalf("check: %v\n%s", err, out.String())
	}
	if err := run("cache", "dir"); err != nil || strings.TrimSpace(out.String()) != dir {
		t.Fatalf("cache dir = %q, %v", out.String(), err)
	}
	if err := run("cache", "clean"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "removed 1 cached result(s)") {
		t.Fatalf("unexpected clean output %q", out.String())
	}
	if err := run("cache", "purge"); err == nil {
		t.Fatal("unknown cache action must fail")
	}
}
