// Package pipeline drives the fetch-extract-collect sequence for each
// requested dataset. Datasets are processed one at a time in a fixed order;
// a failure in one never touches the others, and the whole run is safe to
// repeat because every step skips work that already happened.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"fetchcorpus/internal/collect"
	"fetchcorpus/internal/config"
	"fetchcorpus/internal/corpus"
	"fetchcorpus/internal/extract"
	"fetchcorpus/internal/fetch"
	"fetchcorpus/internal/layout"
	"fetchcorpus/internal/logging"
)

const lockFilename = ".fetchcorpus.lock"

// Runner orchestrates the pipeline over a destination layout.
type Runner struct {
	layout    *layout.Layout
	fetcher   *fetch.Fetcher
	collector *collect.Collector
	logger    *slog.Logger
}

// NewRunner constructs a runner with default dependencies.
func NewRunner(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	l, err := layout.New(cfg.Paths.DestRoot, cfg.Corpus.Language)
	if err != nil {
		return nil, err
	}
	return NewRunnerWithDependencies(l, fetch.New(cfg, logger), collect.New(logger), logger), nil
}

// NewRunnerWithDependencies allows injecting collaborators (used in tests).
func NewRunnerWithDependencies(l *layout.Layout, fetcher *fetch.Fetcher, collector *collect.Collector, logger *slog.Logger) *Runner {
	return &Runner{
		layout:    l,
		fetcher:   fetcher,
		collector: collector,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Fetcher exposes the runner's fetcher for CLI-level tuning.
func (r *Runner) Fetcher() *fetch.Fetcher {
	return r.fetcher
}

// Run processes the given datasets sequentially and reports the outcome.
// Only setup failures (layout, lock) and context cancellation are returned
// as errors; dataset failures land in the report as skips.
func (r *Runner) Run(ctx context.Context, datasets []corpus.Dataset) (*Report, error) {
	if err := r.layout.Ensure(); err != nil {
		return nil, err
	}

	// One run per destination root. Two concurrent runs could race the
	// same partial download.
	lock := flock.New(filepath.Join(r.layout.Root, lockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another fetchcorpus run is active on %s", r.layout.Root)
	}
	defer lock.Unlock()

	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, report.RunID))
	logger.Info("starting corpus run",
		logging.String("dest_root", r.layout.Root),
		logging.String("language", r.layout.Language),
		logging.Int("datasets", len(datasets)),
	)

	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Results = append(report.Results, r.processDataset(ctx, logger, ds))
	}

	report.Finished = time.Now()
	logger.Info("corpus run finished",
		logging.Int("collected", len(report.Results)-len(report.Failed())),
		logging.Int("skipped", len(report.Failed())),
		logging.Int("files_copied", report.Copied()),
		logging.Duration("elapsed", report.Finished.Sub(report.Started)),
	)
	return report, nil
}

func (r *Runner) processDataset(ctx context.Context, logger *slog.Logger, ds corpus.Dataset) DatasetResult {
	result := DatasetResult{Dataset: ds, Status: StatusCollected}
	dsLogger := logger.With(logging.String(logging.FieldDataset, ds.Name))

	rawDir, err := r.layout.EnsureRaw(ds.Name)
	if err != nil {
		result.Status = StatusSkipped
		result.Err = err
		dsLogger.Error("raw directory unavailable, skipping dataset", logging.Error(err))
		return result
	}

	materialized, err := r.materialized(ds, rawDir)
	if err != nil {
		result.Status = StatusSkipped
		result.Err = err
		dsLogger.Error("materialization check failed, skipping dataset", logging.Error(err))
		return result
	}
	result.Materialized = materialized

	if materialized {
		dsLogger.Info("dataset already materialized, skipping fetch")
	} else {
		for _, src := range ds.Sources {
			archive, downloaded, err := r.fetcher.EnsureArchive(ctx, ds.Name, src, rawDir)
			if err != nil {
				result.Status = StatusSkipped
				result.Err = err
				dsLogger.Warn("archive unavailable, skipping dataset", logging.Error(err))
				return result
			}
			if downloaded {
				result.ArchivesFetched++
			}
			if err := extract.Extract(ctx, archive, rawDir); err != nil {
				result.Status = StatusSkipped
				result.Err = corpus.Wrap(corpus.ErrExtract, ds.Name, "extract archive", filepath.Base(archive), err)
				dsLogger.Warn("extraction failed, skipping dataset", logging.Error(result.Err))
				return result
			}
		}
	}

	for _, collection := range ds.Collections {
		srcTree := rawDir
		if collection.Subtree != "" {
			srcTree = filepath.Join(rawDir, filepath.FromSlash(collection.Subtree))
		}
		stats, err := r.collector.Audio(ctx, srcTree, r.layout.RoleDir(collection.Role))
		if err != nil {
			result.Status = StatusSkipped
			result.Err = err
			dsLogger.Warn("collection failed, skipping dataset", logging.Error(err))
			return result
		}
		result.FilesFound += stats.Found
		result.FilesCopied += stats.Copied
		result.FilesSkipped += stats.Skipped
	}

	dsLogger.Info("dataset collected",
		logging.Int("archives_fetched", result.ArchivesFetched),
		logging.Int("files_copied", result.FilesCopied),
		logging.Int("files_skipped", result.FilesSkipped),
	)
	return result
}

// materialized reports whether the dataset's extracted content is already on
// disk. Datasets with markers require every marker directory; datasets
// without a fixed substructure count as materialized once any .wav exists
// under their raw root.
func (r *Runner) materialized(ds corpus.Dataset, rawDir string) (bool, error) {
	if len(ds.Markers) > 0 {
		for _, marker := range ds.Markers {
			info, err := os.Stat(filepath.Join(rawDir, filepath.FromSlash(marker)))
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return false, nil
				}
				return false, err
			}
			if !info.IsDir() {
				return false, nil
			}
		}
		return true, nil
	}
	return anyWav(rawDir)
}

var errWavFound = errors.New("wav found")

func anyWav(root string) (bool, error) {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".wav") {
			return errWavFound
		}
		return nil
	})
	if errors.Is(err, errWavFound) {
		return true, nil
	}
	return false, err
}
