package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"recast/internal/diag"
	"recast/internal/source"
	"recast/internal/style"
	"recast/internal/trace"
)

// Result holds per-file outcomes in path order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics flattens all per-file diagnostics, sorted within each file.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for _, f := range r.Files {
		if f.Bag == nil {
			continue
		}
		f.Bag.Sort()
		out = append(out, f.Bag.Items()...)
	}
	return out
}

// Findings counts rule diagnostics, fixable or not.
func (r *Result) Findings() int {
	n := 0
	for _, d := range r.Diagnostics() {
		if isRuleCode(d.Code) {
			n++
		}
	}
	return n
}

// Dropped counts diagnostics cut by the per-file limit.
func (r *Result) Dropped() int {
	n := 0
	for _, f := range r.Files {
		if f.Bag != nil {
			n += f.Bag.Dropped()
		}
	}
	return n
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, f := range r.Files {
		if f.Bag != nil && f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Run processes target, a .java file or a directory searched recursively,
// with at most opts.Jobs files in flight.
func Run(ctx context.Context, target string, opts Options) (*Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	base := target
	var files []string
	if info.IsDir() {
		var exclude []string
		if opts.Config != nil {
			exclude = opts.Config.Exclude
		}
		files, err = ListJavaFiles(target, exclude)
		if err != nil {
			return nil, err
		}
	} else {
		base = filepath.Dir(target)
		files = []string{target}
	}
	return runFiles(ctx, source.NewFileSetWithBase(base), files, opts)
}

// RunSource processes content as a virtual file called name.
func RunSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(name, content)
	fillDefaults(&opts, "")
	job := newFileJob(fileSet, &opts)
	res := job.process(ctx, id)
	return &Result{FileSet: fileSet, Files: []FileResult{res}}, res.Err
}

func fillDefaults(opts *Options, root string) {
	if opts.Config == nil {
		opts.Config = style.DefaultConfig(root)
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
}

func runFiles(ctx context.Context, fileSet *source.FileSet, files []string, opts Options) (*Result, error) {
	fillDefaults(&opts, fileSet.BaseDir())
	result := &Result{FileSet: fileSet}
	if len(files) == 0 {
		return result, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx)).
		WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	// Предзагрузка последовательно: FileSet не потокобезопасен на запись
	stopLoad := opts.Timer.Begin("load")
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностика указывала на путь
			id = fileSet.AddVirtual(path, nil)
			loadErrors[path] = err
		}
		fileIDs[path] = id
	}
	stopLoad()
	opts.Timer.Note("load", fmt.Sprintf("%d file(s), %d failed", len(files), len(loadErrors)))
	for _, path := range files {
		emit(opts.Progress, Event{File: fileSet.Get(fileIDs[path]).Path, Stage: StageLoad, Status: StatusQueued})
	}

	job := newFileJob(fileSet, &opts)

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.At(fileIDs[path], 0),
					fmt.Sprintf("failed to load file: %v", loadErr)))
				results[i] = FileResult{Path: fileSet.Get(fileIDs[path]).Path, FileID: fileIDs[path], Bag: bag}
				emit(opts.Progress, Event{File: results[i].Path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			results[i] = job.process(gctx, fileIDs[path])
			return results[i].Err
		})
	}

	err := g.Wait()
	result.Files = results
	if err != nil {
		return result, err
	}
	return result, nil
}
