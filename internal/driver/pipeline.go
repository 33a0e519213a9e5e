package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"recast/internal/diag"
	"recast/internal/fix"
	"recast/internal/observ"
	"recast/internal/parser"
	"recast/internal/printer"
	"recast/internal/rewrite"
	"recast/internal/source"
	"recast/internal/style"
	"recast/internal/trace"
	"recast/internal/version"
)

// Options configures a run over one or more files.
type Options struct {
	Recipes        []rewrite.Recipe
	Config         *style.Config
	MaxDiagnostics int
	Jobs           int
	// Cache may be nil, in which case every file is processed.
	Cache *DiskCache
	Timer *observ.Timer
	// Progress, when set, receives per-file stage events.
	Progress ProgressSink
}

// FileResult is the outcome for a single file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Changes []printer.Change
	// Cached is set when the file was skipped thanks to a clean cache entry.
	Cached bool
	Err    error
}

// Changed reports whether any recipe rewrote the file.
func (r FileResult) Changed() bool {
	return len(r.Changes) > 0
}

type fileJob struct {
	fs      *source.FileSet
	parser  *parser.Parser
	opts    *Options
	recipes []string
}

func newFileJob(fs *source.FileSet, opts *Options) *fileJob {
	names := make([]string, 0, len(opts.Recipes))
	for _, rec := range opts.Recipes {
		names = append(names, rec.Name())
	}
	return &fileJob{fs: fs, parser: parser.New(), opts: opts, recipes: names}
}

func (j *fileJob) cacheKey(file *source.File) Digest {
	var cfg Digest
	if j.opts.Config != nil {
		cfg = j.opts.Config.Hash
	}
	return combineDigest(file.Hash, cfg, j.recipes, version.Version)
}

// process runs parse, rewrite and print for one loaded file.
func (j *fileJob) process(ctx context.Context, id source.FileID) FileResult {
	file := j.fs.Get(id)
	res := FileResult{Path: file.Path, FileID: id, Bag: diag.NewBag(j.opts.MaxDiagnostics)}

	started := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", trace.CurrentSpan(ctx)).
		WithExtra("path", file.Path)
	defer func() {
		if res.Err != nil {
			span.Fail(res.Err)
		} else {
			span.End(fmt.Sprintf("diagnostics=%d changes=%d cached=%t", res.Bag.Len(), len(res.Changes), res.Cached))
		}
		j.finish(&res, time.Since(started))
	}()
	ctx = trace.WithSpan(ctx, span)

	key := j.cacheKey(file)
	if j.cached(key, &res) {
		res.Cached = true
		return res
	}

	j.stage(file.Path, StageParse)
	stop := j.opts.Timer.Begin("parse")
	unit, err := j.parser.Parse(ctx, file, diag.BagReporter{Bag: res.Bag})
	stop()
	if err != nil {
		if !errors.Is(err, parser.ErrSyntax) {
			diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.SynParseError, source.At(id, 0), err.Error()).Emit()
		}
		return res
	}
	if j.opts.Config != nil && j.opts.Config.Styles != nil {
		unit = unit.WithStyles(j.opts.Config.Styles)
	}

	rules := diag.NewBag(j.opts.MaxDiagnostics)
	dedup := diag.NewDedupReporter(diag.BagReporter{Bag: rules})
	ec := rewrite.NewContext(ctx, dedup)

	j.stage(file.Path, StageRewrite)
	stop = j.opts.Timer.Begin("rewrite")
	after, err := rewrite.Run(ec, unit, rewrite.Visitors(j.opts.Recipes)...)
	stop()
	if n := dedup.Suppressed(); n > 0 {
		span.WithExtra("repeats", strconv.Itoa(n))
	}
	switch {
	case errors.Is(err, rewrite.ErrCancelled):
		// частичное дерево не используем
		res.Err = err
		return res
	case errors.Is(err, rewrite.ErrDeferredLimit):
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.EngDeferredLimit, source.At(id, 0), err.Error()).Emit()
		return res
	case err != nil:
		res.Err = err
		return res
	}

	j.stage(file.Path, StagePrint)
	stop = j.opts.Timer.Begin("print")
	changes, err := printer.Diff(file, unit, after)
	stop()
	if err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.SynUnsupported, source.At(id, 0),
			fmt.Sprintf("rewrite cannot be expressed as text edits: %v", err)).Emit()
		res.Bag.Merge(rules)
		return res
	}
	res.Changes = changes
	attachFixes(res.Bag, rules, changes, file.FormatPath(source.PathRelative, j.fs.BaseDir()))

	if res.Bag.Len() == 0 && len(changes) == 0 {
		j.remember(key, file)
	}
	return res
}

func (j *fileJob) stage(path string, stage Stage) {
	emit(j.opts.Progress, Event{File: path, Stage: stage, Status: StatusWorking})
}

func (j *fileJob) finish(res *FileResult, elapsed time.Duration) {
	status := StatusDone
	switch {
	case res.Cached:
		status = StatusCached
	case res.Err != nil || res.Bag.HasErrors():
		status = StatusError
	}
	emit(j.opts.Progress, Event{File: res.Path, Status: status, Err: res.Err, Elapsed: elapsed, Changes: len(res.Changes)})
}

func (j *fileJob) cached(key Digest, res *FileResult) bool {
	if j.opts.Cache == nil {
		return false
	}
	var payload ResultPayload
	ok, err := j.opts.Cache.Get(key, &payload)
	if err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.EngCacheError, source.At(res.FileID, 0),
			fmt.Sprintf("cache read failed: %v", err)).Emit()
		return false
	}
	return ok && payload.Clean
}

func (j *fileJob) remember(key Digest, file *source.File) {
	if j.opts.Cache == nil {
		return
	}
	// ошибки записи кэша не критичны
	_ = j.opts.Cache.Put(key, &ResultPayload{
		Path:     file.Path,
		FileHash: file.Hash,
		Recipes:  j.recipes,
		Clean:    true,
	})
}

// attachFixes copies the rule diagnostics into dst and gives each class
// change to the diagnostic reported at that class name. A change nobody
// reported gets a generic RuleInfo diagnostic of its own.
func attachFixes(dst, rules *diag.Bag, changes []printer.Change, label string) {
	claimed := make([]bool, len(changes))
	for _, d := range rules.Items() {
		for i, ch := range changes {
			if claimed[i] || d.Primary != ch.NameSpan || !isRuleCode(d.Code) {
				continue
			}
			d = d.WithFix(changeFix(d.Code, ch, label))
			claimed[i] = true
			break
		}
		dst.Add(d)
	}
	for i, ch := range changes {
		if claimed[i] {
			continue
		}
		d := diag.New(diag.SevInfo, diag.RuleInfo, ch.NameSpan, ch.Summary)
		dst.Add(d.WithFix(changeFix(diag.RuleInfo, ch, label)))
	}
}

func changeFix(code diag.Code, ch printer.Change, label string) diag.Fix {
	id := fmt.Sprintf("%s:%s:%s", code.ID(), label, ch.ClassName)
	return fix.FromEdits(ch.Summary, ch.Edits, fix.WithID(id), fix.Preferred())
}

func isRuleCode(c diag.Code) bool {
	return c >= diag.RuleInfo && c < diag.EngInfo
}
