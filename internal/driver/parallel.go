package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/trace"
)

// FileEvent reports progress of one file in a batch.
type FileEvent struct {
	Index  int
	Total  int
	Path   string
	Done   bool
	Failed bool
	Cached bool
}

// Observer receives FileEvents. It is called from worker goroutines.
type Observer func(FileEvent)

// RunOptions control a batch run.
type RunOptions struct {
	Jobs     int
	Cache    *DiskCache
	Observer Observer
	// Include and Exclude are base-name globs for directory walks.
	Include []string
	Exclude []string
}

// ListSources expands paths into a sorted list of files. Explicit file
// arguments are kept regardless of Include.
func ListSources(paths, include, exclude []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		st, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if path != root && matchAny(exclude, name) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && matchAny(include, name) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func matchAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, err := filepath.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}

// TransformAll transforms every source under paths in parallel. Results
// come back in ListSources order regardless of completion order.
func TransformAll(ctx context.Context, paths []string, opts Options, run RunOptions) (*source.FileSet, []FileResult, error) {
	files, err := ListSources(paths, run.Include, run.Exclude)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "transform-all")
	span.WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")

	// FileSet не потокобезопасен: загружаем всё заранее
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}

	var fingerprint Digest
	if run.Cache != nil {
		fingerprint, err = Fingerprint(opts)
		if err != nil {
			return fileSet, nil, err
		}
	}

	jobs := run.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			notify(run.Observer, FileEvent{Index: i, Total: len(files), Path: path})

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i] = FileResult{Path: path, Bag: bag}
				notify(run.Observer, FileEvent{Index: i, Total: len(files), Path: path, Done: true, Failed: true})
				return nil
			}

			res, err := transformCached(gctx, fileSet, fileIDs[i], opts, run.Cache, fingerprint)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = *res
			notify(run.Observer, FileEvent{
				Index:  i,
				Total:  len(files),
				Path:   path,
				Done:   true,
				Failed: res.Failed(),
				Cached: res.Cached,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func transformCached(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, cache *DiskCache, fingerprint Digest) (*FileResult, error) {
	if cache == nil {
		return Transform(ctx, fs, id, opts)
	}
	file := fs.Get(id)
	key := CacheKey(file.Hash, fingerprint)
	var payload DiskPayload
	hit, err := cache.Get(key, &payload)
	if err != nil {
		// битая запись: пересчитываем и перезаписываем
		trace.Logger().Warn("cache read failed", zap.String("file", file.Path), zap.Error(err))
	}
	if hit {
		res := fromPayload(&payload, id, opts.maxDiagnostics())
		res.Path = file.Path
		return res, nil
	}

	res, err := Transform(ctx, fs, id, opts)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(key, toPayload(res)); err != nil {
		trace.Logger().Warn("cache write failed", zap.String("file", file.Path), zap.Error(err))
	}
	return res, nil
}

func notify(obs Observer, ev FileEvent) {
	if obs != nil {
		obs(ev)
	}
}
