package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"recast/internal/diag"
	"recast/internal/fix"
	"recast/internal/observ"
	"recast/internal/rewrite"
	"recast/internal/rules/hideutil"
	"recast/internal/style"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func defaultRecipes() []rewrite.Recipe {
	return []rewrite.Recipe{hideutil.NewRecipe(style.DefaultHideUtilityClassConstructor)}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestRunFixesDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Util.java":    "public final class Util {\n    public static int one() { return 1; }\n}\n",
		"src/Service.java": "public class Service {\n    private int n;\n    public int n() { return n; }\n}\n",
		"src/Broken.java":  "class Broken { void f( }\n",
		"gen/Gen.java":     "class Gen { static int x; }\n",
	})
	cfg := style.DefaultConfig(root)
	cfg.Exclude = []string{"gen/**"}

	res, err := Run(context.Background(), root, Options{Recipes: defaultRecipes(), Config: cfg, Timer: observ.NewTimer()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(res.Files))
	}
	got := strings.Join(codes(res.Diagnostics()), ",")
	if got != "SYN2001,RULE4001" {
		t.Fatalf("unexpected diagnostics %s", got)
	}
	if res.Findings() != 1 || !res.HasErrors() {
		t.Fatalf("findings=%d errors=%t", res.Findings(), res.HasErrors())
	}

	applied, err := fix.Apply(res.FileSet, res.Diagnostics(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(applied.Applied) != 1 {
		t.Fatalf("expected one applied fix, got %+v", applied.Applied)
	}
	if want := "RULE4001:src/Util.java:Util"; applied.Applied[0].ID != want {
		t.Fatalf("fix id %q, want %q", applied.Applied[0].ID, want)
	}

	want := "public final class Util {\n    private Util() {}\n    public static int one() { return 1; }\n}\n"
	if got := readFile(t, root, "src/Util.java"); got != want {
		t.Fatalf("Util.java\n got: %q\nwant: %q", got, want)
	}
	if got := readFile(t, root, "gen/Gen.java"); got != "class Gen { static int x; }\n" {
		t.Fatalf("excluded file was touched: %q", got)
	}
}

func TestRunSourceScenarios(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		codes   string
		fixable bool
	}{
		{"no constructor", "class Util { static int f(){return 1;} }", "RULE4001", true},
		{"public constructor", "class Util { public Util(){} static int f(){return 1;} }", "RULE4001", true},
		{"parameterised constructor", "class Util { public Util(int x){} static int x; }", "RULE4002", false},
		{"instance member", "class Util { int y; static int x; }", "", false},
		{"private constructor", "class Util { private Util(){} static int x; }", "", false},
		{"main method", "class App { public static void main(String[] a){} }", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := RunSource(context.Background(), "Util.java", []byte(tt.src), Options{Recipes: defaultRecipes()})
			if err != nil {
				t.Fatalf("RunSource: %v", err)
			}
			diags := res.Diagnostics()
			if got := strings.Join(codes(diags), ","); got != tt.codes {
				t.Fatalf("codes %q, want %q", got, tt.codes)
			}
			fixable := false
			for _, d := range diags {
				fixable = fixable || d.Fixable()
			}
			if fixable != tt.fixable {
				t.Fatalf("fixable=%t, want %t", fixable, tt.fixable)
			}
		})
	}
}

func TestRunSourceDryRunIsIdempotent(t *testing.T) {
	src := "class Util {\n    public Util() {}\n    static int x;\n}\n"
	res, err := RunSource(context.Background(), "Util.java", []byte(src), Options{Recipes: defaultRecipes()})
	if err != nil {
		t.Fatal(err)
	}
	applied, err := fix.Apply(res.FileSet, res.Diagnostics(), fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	out := string(applied.Buffers[res.Files[0].FileID])
	if want := "class Util {\n    private Util() {}\n    static int x;\n}\n"; out != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	again, err := RunSource(context.Background(), "Util.java", []byte(out), Options{Recipes: defaultRecipes()})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(again.Diagnostics()); n != 0 {
		t.Fatalf("second run reported %d diagnostics", n)
	}
}

func TestRunUsesProjectStyle(t *testing.T) {
	root := writeTree(t, map[string]string{
		"recast.toml": "[styles.hide_utility_class_constructor]\nvisibility = \"protected\"\n",
		"Util.java":   "class Util {\n    static int x;\n}\n",
	})
	cfg, err := style.LoadConfig(filepath.Join(root, "recast.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	res, err := Run(context.Background(), root, Options{Recipes: defaultRecipes(), Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	applied, err := fix.Apply(res.FileSet, res.Diagnostics(), fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	out := string(applied.Buffers[res.Files[0].FileID])
	if !strings.Contains(out, "protected Util() {}") {
		t.Fatalf("expected protected constructor, got %q", out)
	}
	if readFile(t, root, "Util.java") != "class Util {\n    static int x;\n}\n" {
		t.Fatal("dry run wrote to disk")
	}
}

func TestRunMalformedStyleFallsBack(t *testing.T) {
	root := writeTree(t, map[string]string{
		"recast.yaml": "styles:\n  hide_utility_class_constructor:\n    visibility: hidden\n",
		"Util.java":   "class Util { static int x; }\n",
	})
	cfg, err := style.LoadConfig(filepath.Join(root, "recast.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	res, err := Run(context.Background(), root, Options{Recipes: defaultRecipes(), Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(codes(res.Diagnostics()), ",")
	if got != "STY3001,RULE4001" {
		t.Fatalf("unexpected diagnostics %s", got)
	}
}

func TestRunCacheSkipsCleanFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Clean.java": "class Clean { int n; }\n",
		"Util.java":  "class Util { static int x; }\n",
	})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Recipes: defaultRecipes(), Cache: cache}

	for run := 0; run < 2; run++ {
		res, err := Run(context.Background(), root, opts)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range res.Files {
			wantCached := run == 1 && filepath.Base(f.Path) == "Clean.java"
			if f.Cached != wantCached {
				t.Fatalf("run %d: %s cached=%t", run, f.Path, f.Cached)
			}
		}
		if res.Findings() != 1 {
			t.Fatalf("run %d: findings=%d", run, res.Findings())
		}
	}

	if n, err := cache.DropAll(); err != nil || n != 1 {
		t.Fatalf("DropAll = %d, %v", n, err)
	}
	res, err := Run(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Files {
		if f.Cached {
			t.Fatalf("%s cached after DropAll", f.Path)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"Util.java": "class Util { static int x; }\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, root, Options{Recipes: defaultRecipes()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunSingleFile(t *testing.T) {
	root := writeTree(t, map[string]string{"a/Util.java": "class Util { static int x; }\n"})
	res, err := Run(context.Background(), filepath.Join(root, "a", "Util.java"), Options{Recipes: defaultRecipes()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || !res.Files[0].Changed() {
		t.Fatalf("unexpected result %+v", res.Files)
	}
}

func TestListJavaFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"A.java":             "",
		"b/B.java":           "",
		"b/gen/G.java":       "",
		"c/CTest.java":       "",
		"notes.txt":          "",
		".git/objects/X.java": "",
	})
	files, err := ListJavaFiles(root, []string{"b/gen/**", "*Test.java"})
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if got := strings.Join(rel, ","); got != "A.java,b/B.java" {
		t.Fatalf("files = %s", got)
	}

	if _, err := ListJavaFiles(root, []string{"[bad"}); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestCombineDigest(t *testing.T) {
	var content, cfg Digest
	content[0] = 1
	a := combineDigest(content, cfg, []string{"ab", "c"}, "1")
	b := combineDigest(content, cfg, []string{"a", "bc"}, "1")
	c := combineDigest(content, cfg, []string{"ab", "c"}, "2")
	if a == b || a == c {
		t.Fatal("digests should differ")
	}
	if a != combineDigest(content, cfg, []string{"ab", "c"}, "1") {
		t.Fatal("digest is not deterministic")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) final() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status)
	for _, ev := range s.events {
		out[filepath.Base(ev.File)] = ev.Status
	}
	return out
}

func TestRunReportsProgress(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Util.java":   "class Util { static int x; }\n",
		"Broken.java": "class Broken { void f( }\n",
	})
	sink := &recordingSink{}
	if _, err := Run(context.Background(), root, Options{Recipes: defaultRecipes(), Progress: sink, Jobs: 1}); err != nil {
		t.Fatal(err)
	}
	got := sink.final()
	if got["Util.java"] != StatusDone || got["Broken.java"] != StatusError {
		t.Fatalf("final statuses %v", got)
	}
	queued := 0
	for _, ev := range sink.events {
		if ev.Status == StatusQueued {
			queued++
		}
	}
	if queued != 2 {
		t.Fatalf("expected 2 queued events, got %d", queued)
	}
}
