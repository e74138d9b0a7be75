// Package fetch ensures dataset archives are present locally, downloading
// them when absent. An archive that already exists on disk is never
// re-fetched, which makes every run safe to repeat or resume.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"fetchcorpus/internal/config"
	"fetchcorpus/internal/corpus"
	"fetchcorpus/internal/logging"
)

const partialSuffix = ".partial"

// Fetcher downloads archives over HTTP(S).
type Fetcher struct {
	client       *http.Client
	probeTimeout time.Duration
	userAgent    string
	probe        bool
	progress     bool
	logger       *slog.Logger
}

// New builds a fetcher from application config.
func New(cfg *config.Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:       &http.Client{Timeout: time.Duration(cfg.Fetch.RequestTimeout) * time.Second},
		probeTimeout: time.Duration(cfg.Fetch.ProbeTimeout) * time.Second,
		userAgent:    cfg.Fetch.UserAgent,
		probe:        cfg.Fetch.Probe,
		progress:     isatty.IsTerminal(os.Stderr.Fd()),
		logger:       logging.NewComponentLogger(logger, "fetcher"),
	}
}

// SetProgress overrides the tty-derived progress bar decision.
func (f *Fetcher) SetProgress(enabled bool) {
	f.progress = enabled
}

// EnsureArchive makes sure the archive behind src exists in destDir and
// returns its path. When the target filename is already present no network
// access happens at all. Download failures remove the partial file and come
// back wrapped with corpus.ErrDownload so the caller can skip the dataset.
func (f *Fetcher) EnsureArchive(ctx context.Context, dataset string, src corpus.Source, destDir string) (string, bool, error) {
	name, err := src.Filename()
	if err != nil {
		return "", false, corpus.Wrap(corpus.ErrDownload, dataset, "resolve archive name", src.URL, err)
	}
	target := filepath.Join(destDir, name)

	if _, err := os.Stat(target); err == nil {
		f.logger.Debug("archive already present",
			logging.String(logging.FieldDataset, dataset),
			logging.String("archive", name),
		)
		return target, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, corpus.Wrap(corpus.ErrDownload, dataset, "stat archive", target, err)
	}

	if f.probe {
		f.probeURL(ctx, dataset, src.URL)
	}

	if err := f.download(ctx, dataset, src.URL, target); err != nil {
		return "", false, err
	}
	return target, true, nil
}

// probeURL is a best-effort reachability diagnostic. It never gates the
// download attempt.
func (f *Fetcher) probeURL(ctx context.Context, dataset, url string) {
	probeCtx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, url, nil)
	if err != nil {
		f.logger.Warn("probe failed", logging.String(logging.FieldDataset, dataset), logging.String("url", url), logging.Error(err))
		return
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("probe failed", logging.String(logging.FieldDataset, dataset), logging.String("url", url), logging.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.Warn("probe returned error status",
			logging.String(logging.FieldDataset, dataset),
			logging.String("url", url),
			logging.Int("status", resp.StatusCode),
		)
	}
}

func (f *Fetcher) download(ctx context.Context, dataset, url, target string) error {
	partial := target + partialSuffix

	var offset int64
	if info, err := os.Stat(partial); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return corpus.Wrap(corpus.ErrDownload, dataset, "build request", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	f.logger.Info("downloading archive",
		logging.String(logging.FieldDataset, dataset),
		logging.String("url", url),
		logging.Int64("resume_offset", offset),
	)

	resp, err := f.client.Do(req)
	if err != nil {
		os.Remove(partial)
		return corpus.Wrap(corpus.ErrDownload, dataset, "request archive", url, err)
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch resp.StatusCode {
	case http.StatusOK:
		// Server ignored the range; start over.
		flags |= os.O_TRUNC
		offset = 0
	case http.StatusPartialContent:
		flags |= os.O_APPEND
	case http.StatusRequestedRangeNotSatisfiable:
		// Nothing left to fetch: the partial already holds the full body.
		if offset > 0 {
			return finalize(dataset, partial, target)
		}
		os.Remove(partial)
		return corpus.Wrap(corpus.ErrDownload, dataset, "request archive", fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url), nil)
	default:
		os.Remove(partial)
		return corpus.Wrap(corpus.ErrDownload, dataset, "request archive", fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url), nil)
	}

	out, err := os.OpenFile(partial, flags, 0o644)
	if err != nil {
		return corpus.Wrap(corpus.ErrDownload, dataset, "open partial file", partial, err)
	}

	var dst io.Writer = out
	var bar *progressbar.ProgressBar
	if f.progress {
		bar = progressbar.NewOptions64(offset+resp.ContentLength,
			progressbar.OptionSetDescription(filepath.Base(target)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		_ = bar.Add64(offset)
		dst = io.MultiWriter(out, bar)
	}

	_, copyErr := io.Copy(dst, resp.Body)
	closeErr := out.Close()
	if bar != nil {
		_ = bar.Finish()
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(partial)
		return corpus.Wrap(corpus.ErrDownload, dataset, "write archive", url, copyErr)
	}

	return finalize(dataset, partial, target)
}

func finalize(dataset, partial, target string) error {
	if err := os.Rename(partial, target); err != nil {
		os.Remove(partial)
		return corpus.Wrap(corpus.ErrDownload, dataset, "finalize archive", target, err)
	}
	return nil
}
