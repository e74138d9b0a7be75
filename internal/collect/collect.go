// Package collect gathers audio files from extracted dataset trees into the
// flat foreground/background destination folders. Destination files are
// never replaced, so collection converges across runs.
package collect

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fetchcorpus/internal/fileutil"
	"fetchcorpus/internal/logging"
)

// Stats summarizes one collection pass.
type Stats struct {
	Found   int
	Copied  int
	Skipped int
}

// Collector copies audio out of source trees.
type Collector struct {
	logger *slog.Logger
}

// New builds a collector.
func New(logger *slog.Logger) *Collector {
	return &Collector{logger: logging.NewComponentLogger(logger, "collector")}
}

// Audio recursively finds .wav files under srcTree and copies each into
// destDir, keeping any same-named file already present (first writer wins).
// A missing srcTree is a warning, not an error, so partially available
// datasets still contribute what they have.
func (c *Collector) Audio(ctx context.Context, srcTree, destDir string) (Stats, error) {
	var stats Stats

	if _, err := os.Stat(srcTree); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("source tree missing, skipping collection", logging.String("source", srcTree))
			return stats, nil
		}
		return stats, err
	}

	err := filepath.WalkDir(srcTree, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".wav") {
			return nil
		}

		stats.Found++
		copied, err := fileutil.CopyIfMissing(path, filepath.Join(destDir, entry.Name()))
		if err != nil {
			return err
		}
		if copied {
			stats.Copied++
		} else {
			stats.Skipped++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	c.logger.Info("collection finished",
		logging.String("source", srcTree),
		logging.String("destination", destDir),
		logging.Int("found", stats.Found),
		logging.Int("copied", stats.Copied),
		logging.Int("skipped", stats.Skipped),
	)
	return stats, nil
}
