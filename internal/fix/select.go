package fix

import (
	"cmp"
	"fmt"
	"slices"

	"recast/internal/diag"
)

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// gatherCandidates flattens the fixes of diagnostics into candidates.
// Fixes without edits and fixes repeating an ID already seen are recorded
// in res as skipped. A fix without an ID gets one from the diagnostic code,
// file, start offset and fix index.
func gatherCandidates(diagnostics []diag.Diagnostic, res *ApplyResult) []candidate {
	var cands []candidate
	seen := make(map[string]struct{})
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				res.skip(f, "fix has no edits")
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				res.skip(f, "duplicate fix id")
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands
}

// sortCandidates orders by primary location, then by the order the fixes
// were reported, with preferred fixes first among equals.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
			cmp.Compare(a.diag.Code, b.diag.Code),
			preferredFirst(a.fix, b.fix),
			cmp.Compare(a.fix.ID, b.fix.ID),
			cmp.Compare(a.fix.Title, b.fix.Title),
		)
	})
}

func preferredFirst(a, b diag.Fix) int {
	switch {
	case a.IsPreferred == b.IsPreferred:
		return 0
	case a.IsPreferred:
		return -1
	default:
		return 1
	}
}

func selectCandidates(cands []candidate, opts ApplyOptions, res *ApplyResult) []candidate {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		if i < 0 {
			res.skip(diag.Fix{ID: opts.TargetID}, "fix id not found")
			return nil
		}
		if cands[i].fix.RequiresAll {
			res.skip(diag.Fix{ID: opts.TargetID}, "fix requires all fixes to be applied")
			return nil
		}
		return cands[i : i+1]

	case ApplyModeAll:
		selected := make([]candidate, 0, len(cands))
		for _, c := range cands {
			if c.fix.Applicability != diag.FixApplicabilityAlwaysSafe {
				res.skip(c.fix, "applicability is %s", c.fix.Applicability)
				continue
			}
			selected = append(selected, c)
		}
		return selected

	case ApplyModeOnce:
		// первый безопасный, иначе первый любой
		var fallback []candidate
		for i, c := range cands {
			if c.fix.RequiresAll {
				res.skip(c.fix, "fix requires all fixes to be applied")
				continue
			}
			if c.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return cands[i : i+1]
			}
			if fallback == nil {
				fallback = cands[i : i+1]
			}
		}
		return fallback
	}
	return nil
}
