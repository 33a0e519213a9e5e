package diag

import (
	"strings"
	"testing"

	"recast/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/src/Util.java", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     RuleUtilityCtorWithParams,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevInfo,
			Code:     RuleHideUtilityCtor,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "info RULE4001 src/Util.java:1:1 first line second\n" +
		"note RULE4001 src/Util.java:2:1 note line\n" +
		"warning RULE4002 src/Util.java:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestDedupReporterDropsRepeats(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{File: 0, Start: 4, End: 8}

	r.Report(RuleUtilityCtorWithParams, SevWarning, span, "ctor", nil, nil)
	r.Report(RuleUtilityCtorWithParams, SevWarning, span, "ctor", nil, nil)
	r.Report(RuleUtilityCtorWithParams, SevWarning, span, "other", nil, nil)

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if r.Suppressed() != 1 {
		t.Fatalf("suppressed = %d", r.Suppressed())
	}
}

func TestParseCodeAndSeverity(t *testing.T) {
	codes := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"RULE4001", RuleHideUtilityCtor, true},
		{"syn2001", SynParseError, true},
		{" IO1001 ", IOLoadFileError, true},
		{"RULE2001", UnknownCode, false},
		{"4001", UnknownCode, false},
		{"RULEx", UnknownCode, false},
	}
	for _, tc := range codes {
		got, err := ParseCode(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Fatalf("ParseCode(%q) = %v, %v", tc.in, got, err)
		}
		if tc.ok && got.ID() != strings.ToUpper(strings.TrimSpace(tc.in)) {
			t.Fatalf("ID round trip for %q gave %s", tc.in, got.ID())
		}
	}

	sevs := map[string]Severity{"info": SevInfo, "Warn": SevWarning, "ERROR": SevError}
	for in, want := range sevs {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatal("fatal is not a severity")
	}

	items := []Diagnostic{
		New(SevInfo, RuleHideUtilityCtor, source.Span{}, "a"),
		New(SevWarning, RuleUtilityCtorWithParams, source.Span{}, "b"),
		New(SevError, SynParseError, source.Span{}, "c"),
	}
	if got := AtLeast(items, SevWarning); len(got) != 2 || got[0].Code != RuleUtilityCtorWithParams {
		t.Fatalf("AtLeast(warning) = %+v", got)
	}
	if got := AtLeast(items, SevInfo); len(got) != 3 {
		t.Fatalf("AtLeast(info) dropped items")
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(New(SevInfo, RuleHideUtilityCtor, source.Span{Start: 10, End: 12}, "b")) {
		t.Fatal("first add must succeed")
	}
	bag.Add(New(SevError, SynParseError, source.Span{Start: 1, End: 2}, "a"))
	if bag.Add(New(SevInfo, RuleInfo, source.Span{}, "dropped")) {
		t.Fatal("add over limit must fail")
	}
	bag.Sort()
	if bag.Items()[0].Code != SynParseError {
		t.Fatalf("expected parse error first, got %s", bag.Items()[0].Code.ID())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected errors and warnings to be detected")
	}
	if bag.Dropped() != 1 {
		t.Fatalf("dropped = %d", bag.Dropped())
	}

	merged := NewBag(1)
	merged.Merge(bag)
	if merged.Len() != 2 || merged.Dropped() != 1 {
		t.Fatalf("merge: len=%d dropped=%d", merged.Len(), merged.Dropped())
	}
	if w, ok := NewBag(1).Worst(); ok || w != SevInfo {
		t.Fatal("empty bag has no worst severity")
	}
}
