package fix

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"recast/internal/diag"
	"recast/internal/source"
)

// ErrNoFixes means selection or staging left nothing to write.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode picks which candidates survive selection: the single best one,
// every safe one, or the one whose ID matches ApplyOptions.TargetID.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Codes limits candidates to these diagnostic codes. Fixes of other
	// codes are ignored rather than reported as skipped.
	Codes []diag.Code
	// DryRun keeps the rewritten buffers in memory only; virtual files
	// are rejected otherwise.
	DryRun bool
}

func (o ApplyOptions) wants(code diag.Code) bool {
	return len(o.Codes) == 0 || slices.Contains(o.Codes, code)
}

type (
	AppliedFix struct {
		ID, Title     string
		Code          diag.Code
		Applicability diag.FixApplicability
		PrimaryPath   string
		EditCount     int
	}

	SkippedFix struct {
		ID, Title string
		Reason    string
	}

	FileChange struct {
		Path      string
		EditCount int
	}

	// ApplyResult is filled in even when Apply returns an error.
	ApplyResult struct {
		Applied     []AppliedFix
		Skipped     []SkippedFix
		FileChanges []FileChange
		// Buffers holds the new content of every changed file.
		Buffers map[source.FileID][]byte
	}
)

func (r *ApplyResult) skip(f diag.Fix, format string, args ...any) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: fmt.Sprintf(format, args...)})
}

// Apply selects fixes from diagnostics according to opts and applies them
// to the buffers of fs. Fixes are applied in a deterministic order; a fix
// whose edits overlap an already applied one, or whose guard text no longer
// matches, is skipped as a whole. Unless opts.DryRun is set, every changed
// file is rewritten on disk.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{Applied: []AppliedFix{}, Skipped: []SkippedFix{}, FileChanges: []FileChange{}}
	if fs == nil {
		return result, errors.New("fix: no file set")
	}

	candidates := gatherCandidates(filterByCode(diagnostics, opts), result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected := selectCandidates(candidates, opts, result)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	ws := newWorkspace(fs, opts.DryRun)
	for _, cand := range selected {
		if reason := ws.stage(cand.fix.Edits); reason != "" {
			result.skip(cand.fix, "%s", reason)
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   ws.displayPath(cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := ws.commit()
	result.Buffers = ws.buffers()
	result.FileChanges = append(result.FileChanges, changes...)
	return result, err
}

func filterByCode(diagnostics []diag.Diagnostic, opts ApplyOptions) []diag.Diagnostic {
	if len(opts.Codes) == 0 {
		return diagnostics
	}
	out := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if opts.wants(d.Code) {
			out = append(out, d)
		}
	}
	return out
}

// ParseCodes turns a list such as "RULE4001,RULE4002" into codes.
func ParseCodes(values []string) ([]diag.Code, error) {
	var out []diag.Code
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			code, err := diag.ParseCode(part)
			if err != nil {
				return nil, err
			}
			out = append(out, code)
		}
	}
	return out, nil
}
