package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/claimtrack/internal/source"
	"github.com/theirongolddev/claimtrack/internal/store"
)

// ProgressFunc is called during import to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ImportResult summarises one import run.
type ImportResult struct {
	TotalFiles  int
	Imported    int // files parsed and written
	Unchanged   int // files skipped because mtime and size matched
	Removed     int // tracked files gone from disk, pruned with their events
	FileErrors  int
	ParseErrors int // malformed lines skipped across all files
	Claims      int
	Payments    int
	Errors      []error
}

type importJob struct {
	file  source.DiscoveredFile
	info  os.FileInfo
	parse source.ParseResult
}

// Import parses the given files and writes them into st. Files whose mtime
// and size match the tracked state are skipped unless force is set. Parsing
// runs on a bounded pool; writes are serialised, one transaction per file.
func Import(ctx context.Context, files []source.DiscoveredFile, st *store.Store, force bool, progressFn ProgressFunc) (*ImportResult, error) {
	result := &ImportResult{TotalFiles: len(files)}

	tracked, err := st.TrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading tracked files: %w", err)
	}
	if err := pruneMissing(ctx, st, tracked, result); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return result, nil
	}

	// Diff: partition into changed and unchanged
	var jobs []*importJob
	for _, f := range files {
		abs, err := filepath.Abs(f.Path)
		if err == nil {
			f.Path = abs
		}
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, err)
			continue
		}
		if prev, ok := tracked[f.Path]; ok && !force && prev.Unchanged(info.ModTime().UnixNano(), info.Size()) {
			result.Unchanged++
			continue
		}
		jobs = append(jobs, &importJob{file: f, info: info})
	}

	var processed atomic.Int64
	processed.Store(int64(result.Unchanged + result.FileErrors))
	if progressFn != nil {
		progressFn(int(processed.Load()), result.TotalFiles)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runtime.GOMAXPROCS(0), 1))
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job.parse = source.ParseFile(job.file)
			n := processed.Add(1)
			if progressFn != nil {
				progressFn(int(n), result.TotalFiles)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		pr := job.parse
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, pr.Err)
			continue
		}
		result.ParseErrors += pr.ParseErrors

		tf := store.TrackedFile{
			Path:      job.file.Path,
			Kind:      string(job.file.Kind),
			MtimeNs:   job.info.ModTime().UnixNano(),
			SizeBytes: job.info.Size(),
		}
		if err := st.ReplaceFile(ctx, tf, pr.Claims, pr.Payments); err != nil {
			return nil, fmt.Errorf("storing %s: %w", job.file.Path, err)
		}
		result.Imported++
		result.Claims += len(pr.Claims)
		result.Payments += len(pr.Payments)
	}

	return result, nil
}

// pruneMissing drops tracked files that no longer exist, along with their
// events. Files that merely were not named in this run are kept.
func pruneMissing(ctx context.Context, st *store.Store, tracked map[string]store.TrackedFile, result *ImportResult) error {
	for path := range tracked {
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := st.DeleteFile(ctx, path); err != nil {
			return fmt.Errorf("pruning %s: %w", path, err)
		}
		delete(tracked, path)
		result.Removed++
	}
	return nil
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "claimtrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "claimtrack")
}

// DefaultDBPath returns the full path to the default database.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "claimtrack.db")
}
