// Package driver orchestrates batch checking of annotation files: one
// expression per line, resolved against the project's declared symbols.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/parser"
	"sigil/internal/project"
	"sigil/internal/sema"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// Options configures a check run.
type Options struct {
	Manifest       project.Manifest
	MaxDiagnostics int
	Jobs           int
	Cache          *SnapshotCache // nil disables caching
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	if o.Manifest.Check.MaxDiagnostics > 0 {
		return o.Manifest.Check.MaxDiagnostics
	}
	return project.DefaultMaxDiagnostics
}

// LineResult is one checked annotation line.
type LineResult struct {
	Line  uint32 // 1-based
	Text  string
	Label string // display form of the resolved type or signature
}

// Result is the outcome for one file.
type Result struct {
	Path      string
	FileID    source.FileID
	Lines     []LineResult
	Bag       *diag.Bag
	FromCache bool
}

// CheckFile loads and checks a single annotation file.
func CheckFile(ctx context.Context, fileSet *source.FileSet, path string, opts Options) (*Result, error) {
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	return checkLoaded(ctx, fileSet, path, fileID, opts)
}

// checkLoaded resolves every line of an already-loaded file. Each file
// gets its own symbol table and type interner: the resolver mutates
// both (lazy singleton classes, structural interning), so sharing them
// across goroutines is not an option.
func checkLoaded(ctx context.Context, fileSet *source.FileSet, path string, fileID source.FileID, opts Options) (*Result, error) {
	file := fileSet.Get(fileID)

	if opts.Cache != nil {
		key := opts.Cache.Key(file.Hash, opts.Manifest)
		if res, ok, err := opts.Cache.Get(key, path, fileID, opts.maxDiagnostics()); err == nil && ok {
			return res, nil
		}
		// На промахе и на ошибке чтения просто пересчитываем.
	}

	strs := source.NewInterner()
	table := symbols.NewTable(strs)
	if err := opts.Manifest.Declare(table); err != nil {
		return nil, err
	}
	interner := types.NewInterner()
	builder := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.BagReporter{Bag: bag}
	p := parser.New(table, builder, reporter)
	resolver := sema.NewResolver(table, interner, builder, reporter, table.Root())

	res := &Result{Path: path, FileID: fileID, Bag: bag}
	base := uint32(0)
	for lineNo, raw := range strings.Split(string(file.Content), "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		expr := p.ParseExpression(parser.FileRef{File: fileID, Base: base}, []byte(raw))
		base += uint32(len(raw)) + 1
		if !expr.IsValid() {
			continue
		}
		label := resolveLine(resolver, interner, table, builder, expr)
		res.Lines = append(res.Lines, LineResult{
			Line:  uint32(lineNo) + 1,
			Text:  strings.TrimSpace(raw),
			Label: label,
		})
	}
	bag.Sort()

	if opts.Cache != nil {
		key := opts.Cache.Key(file.Hash, opts.Manifest)
		// Ошибка записи кеша не должна ломать проверку.
		_ = opts.Cache.Put(key, res)
	}
	return res, nil
}

// resolveLine labels one parsed expression: signature chains render as
// `sig(...) -> T`, everything else resolves in type position.
func resolveLine(r *sema.Resolver, in *types.Interner, table *symbols.Table, builder *ast.Builder, expr ast.ExprID) string {
	if _, ok := builder.Exprs.Call(expr); ok && r.IsSigChain(expr) {
		return sigLabel(r.ParseSig(expr), in, table)
	}
	return in.Label(r.Resolve(expr), table)
}

func sigLabel(parsed sema.ParsedSig, in *types.Interner, table *symbols.Table) string {
	var b strings.Builder
	b.WriteString("sig")
	if parsed.Seen.Abstract {
		b.WriteString(" abstract")
	}
	if len(parsed.ArgTypes) > 0 {
		b.WriteByte('(')
		for i, arg := range parsed.ArgTypes {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(table.StringValue(arg.Name))
			b.WriteString(": ")
			b.WriteString(in.Label(arg.Type, table))
		}
		b.WriteByte(')')
	}
	b.WriteString(" -> ")
	if parsed.Seen.Returns {
		b.WriteString(in.Label(parsed.Returns, table))
	} else {
		b.WriteString("<missing>")
	}
	return b.String()
}

// listSigFiles returns the sorted list of *.sig files under dir.
func listSigFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sig") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every *.sig file under dir in parallel. Results come
// back in sorted path order regardless of completion order.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*Result, error) {
	files, err := listSigFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Файлы грузим заранее: FileSet не потокобезопасен, а воркерам
	// он нужен только на чтение.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = opts.Manifest.Check.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, ok := loadErrors[path]; ok {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = &Result{Path: path, Bag: bag}
				return nil
			}
			res, err := checkLoaded(gctx, fileSet, path, fileIDs[path], opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
