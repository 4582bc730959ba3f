// Package driver runs generation over .flags files: load, split into units,
// expand every unit and assemble one Go file per input.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"enumflags/internal/bitflags"
	"enumflags/internal/diag"
	"enumflags/internal/flagfile"
	"enumflags/internal/gen"
	"enumflags/internal/observ"
	"enumflags/internal/project"
	"enumflags/internal/source"
	"enumflags/internal/trace"
)

// Ext is the extension of flag declaration files.
const Ext = ".flags"

// Options configure a run. The zero value generates with built-in defaults
// and writes nothing.
type Options struct {
	Manifest       *project.Manifest // nil means project.Default()
	MaxDiagnostics int
	Jobs           int // directory mode workers, <= 0 for GOMAXPROCS
	Write          bool
	Cache          *DiskCache
	Progress       ProgressSink
	Timer          *observ.Timer
	Debug          io.Writer // debug = true dumps; nil routes them to the tracer
}

// FileResult is the outcome for one input.
type FileResult struct {
	Path    string
	Output  string // generated file path
	FileID  source.FileID
	Package string
	Units   int
	Bag     *diag.Bag
	Source  []byte // nil when the file failed
	Cached  bool
	Written bool // false when the output was already up to date
}

// Failed reports whether the file produced an error diagnostic.
func (r *FileResult) Failed() bool { return r.Bag.HasErrors() }

// Result collects every file of a run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Failed reports whether any file failed.
func (r *Result) Failed() bool {
	return slices.ContainsFunc(r.Files, func(f FileResult) bool { return f.Failed() })
}

// Generate processes path, a .flags file or a directory searched recursively.
func Generate(ctx context.Context, path string, opts Options) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return GenerateDir(ctx, path, opts)
	}
	return GenerateFile(ctx, path, opts)
}

// GenerateFile processes a single .flags file.
func GenerateFile(ctx context.Context, path string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "generate")
	defer span.End("")

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(filepath.Dir(path))
	res := &Result{FileSet: fileSet, Files: make([]FileResult, 1)}
	idx := opts.Timer.Begin("load")
	id, loadErr := load(fileSet, path)
	opts.Timer.End(idx, "")
	res.Files[0] = processFile(ctx, fileSet, path, id, loadErr, opts)
	return res, nil
}

// GenerateDir processes every .flags file under dir in parallel. Results are
// ordered by path.
func GenerateDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "generate")
	defer span.End("")

	files, err := ListFlagFiles(dir)
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(dir)
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	// FileSet не потокобезопасен: грузим всё заранее, воркеры только читают
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	idx := opts.Timer.Begin("load")
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		ids[i], loadErrs[i] = load(fileSet, path)
	}
	opts.Timer.End(idx, fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс уникален для горутины, мьютекс не нужен
			res.Files[i] = processFile(gctx, fileSet, path, ids[i], loadErrs[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// load registers an empty placeholder for unreadable files so their
// diagnostics still resolve to the path.
func load(fileSet *source.FileSet, path string) (source.FileID, error) {
	id, err := fileSet.Load(path)
	if err != nil {
		return fileSet.AddVirtual(path, nil), err
	}
	return id, nil
}

// ListFlagFiles returns the sorted .flags files under dir.
func ListFlagFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func processFile(ctx context.Context, fileSet *source.FileSet, path string, id source.FileID, loadErr error, opts Options) FileResult {
	manifest := opts.Manifest
	if manifest == nil {
		manifest = project.Default()
	}
	out := FileResult{
		Path:   path,
		Output: manifest.OutputPath(path),
		FileID: id,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	started := time.Now()
	finish := func() FileResult {
		status := StatusDone
		var err error
		switch {
		case out.Failed():
			status, err = StatusError, errors.New(firstError(out.Bag))
		case out.Cached:
			status = StatusCached
		}
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: status, Err: err, Elapsed: time.Since(started)})
		return out
	}

	if loadErr != nil {
		out.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+loadErr.Error()))
		return finish()
	}
	file := fileSet.Get(id)

	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	defer func() { span.End(fmt.Sprintf("%d diagnostics", out.Bag.Len())) }()
	timerIdx := opts.Timer.Begin(path)
	defer func() { opts.Timer.End(timerIdx, fmt.Sprintf("%d units", out.Units)) }()

	key := CacheKey(file, manifest)
	if opts.Cache != nil {
		var payload CachePayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			out.Cached = true
			out.Units = payload.Units
			out.Package = payload.Package
			out.Source = payload.Output
			span.WithExtra("cache", "hit")
			writeOutput(&out, opts)
			return finish()
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	// дерево и декларация могут сообщить об одной и той же позиции
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: out.Bag})
	ff, ok := flagfile.Parse(file, rep)
	if !ok {
		return finish()
	}
	out.Units = len(ff.Units)
	out.Package, ok = resolvePackage(ff, manifest, path, rep)
	if !ok {
		return finish()
	}
	if len(ff.Units) == 0 {
		diag.ReportWarning(rep, diag.SemaNoFlags, source.Span{File: id},
			"file declares no flag types; nothing is generated").Emit()
		return finish()
	}

	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusWorking})
	base := manifest.BaseConfig()
	fragments := make([][]byte, 0, len(ff.Units))
	seen := make(map[string]declared)
	debug := false
	for _, u := range ff.Units {
		if err := ctx.Err(); err != nil {
			out.Bag.Add(diag.NewError(diag.IOInfo, u.Span, "generation cancelled: "+err.Error()))
			return finish()
		}
		r, ok := bitflags.Expand(ctx, u.Args, u.Decl, bitflags.Options{Base: &base, Debug: opts.Debug}, rep)
		if !ok {
			continue
		}
		debug = debug || r.Config.Debug
		if !checkDeclared(seen, r, rep) {
			continue
		}
		fragments = append(fragments, r.Source)
	}
	if out.Failed() {
		return finish()
	}

	rel, err := source.RelativePath(path, fileSet.BaseDir())
	if err != nil {
		rel = filepath.Base(path)
	}
	src, err := gen.File(out.Package, filepath.ToSlash(rel), fragments...)
	if err != nil {
		out.Bag.Add(diag.NewError(diag.GenFormat, source.Span{File: id}, err.Error()))
		return finish()
	}
	out.Source = src

	// дамп debug = true печатается только при разборе, такие файлы не кэшируем
	if opts.Cache != nil && out.Bag.Len() == 0 && !debug {
		if err := opts.Cache.Put(key, &CachePayload{Path: path, Package: out.Package, Units: out.Units, Output: src}); err != nil {
			trace.Point(ctx, trace.ScopeFile, "cache:put", err.Error())
		}
	}
	writeOutput(&out, opts)
	return finish()
}

// resolvePackage picks the package clause: the file's own, then the
// manifest's, then one derived from the directory name.
func resolvePackage(ff *flagfile.File, m *project.Manifest, path string, r diag.Reporter) (string, bool) {
	switch {
	case ff.Package != "":
		if !project.ValidPackage(ff.Package) {
			diag.ReportError(r, diag.ProjInvalidPackage, ff.PackageSpan,
				fmt.Sprintf("`%s` cannot be used as a Go package name", ff.Package)).Emit()
			return "", false
		}
		return ff.Package, true
	case m.Generate.Package != "":
		return m.Generate.Package, true
	default:
		return project.PackageFromDir(filepath.Dir(path)), true
	}
}

// declared is a package level name generated by an earlier unit.
type declared struct {
	span   source.Span
	owner  string
	isType bool
}

// checkDeclared rejects package level names already generated by an earlier
// unit of the same file.
func checkDeclared(seen map[string]declared, r *bitflags.Result, rep diag.Reporter) bool {
	list := gen.Names(r.Model)
	typ := list[0]
	for _, name := range list {
		prev, dup := seen[name]
		if !dup {
			continue
		}
		if name == typ && prev.isType {
			diag.ReportError(rep, diag.SemaDuplicateType, r.Model.NameSpan,
				fmt.Sprintf("flag type `%s` is declared twice in this file", typ)).
				WithNote(prev.span, "previous declaration here").
				Emit()
			return false
		}
		diag.ReportError(rep, diag.GenNameConflict, r.Model.NameSpan,
			fmt.Sprintf("`%s` generated for `%s` is already declared by `%s`", name, typ, prev.owner)).
			WithNote(prev.span, "`"+prev.owner+"` declared here").
			Emit()
		return false
	}
	for i, name := range list {
		seen[name] = declared{span: r.Model.NameSpan, owner: typ, isType: i == 0}
	}
	return true
}

func writeOutput(out *FileResult, opts Options) {
	if !opts.Write || out.Source == nil {
		return
	}
	if existing, err := os.ReadFile(out.Output); err == nil {
		if bytes.Equal(existing, out.Source) {
			return
		}
		if !bytes.HasPrefix(existing, []byte(gen.Header)) {
			out.Bag.Add(diag.NewError(diag.GenOutputPath, source.Span{File: out.FileID},
				fmt.Sprintf("refusing to overwrite %s: the file was not generated by enumflags", out.Output)))
			return
		}
	}
	if err := os.WriteFile(out.Output, out.Source, 0o644); err != nil {
		out.Bag.Add(diag.NewError(diag.IOWriteError, source.Span{File: out.FileID}, "failed to write output: "+err.Error()))
		return
	}
	out.Written = true
}

func firstError(bag *diag.Bag) string {
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			return d.Error()
		}
	}
	return "failed"
}
