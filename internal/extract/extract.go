// Package extract unpacks downloaded archives into a dataset's raw
// directory. Files that already exist on disk are never overwritten, so
// extraction converges on re-runs just like download and collection.
package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks the archive at archivePath into destDir according to its
// detected kind. Unrecognized files are a no-op.
func Extract(ctx context.Context, archivePath, destDir string) error {
	switch DetectKind(filepath.Base(archivePath)) {
	case KindZip:
		return extractZip(ctx, archivePath, destDir)
	case KindTarGz:
		return extractTarGz(ctx, archivePath, destDir)
	default:
		return nil
	}
}

func extractZip(ctx context.Context, archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip %s: %w", filepath.Base(archivePath), err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := securePath(destDir, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %q: %w", target, err)
			}
			continue
		}
		if err := writeEntry(target, func() (io.ReadCloser, error) { return file.Open() }); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func extractTarGz(ctx context.Context, archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", filepath.Base(archivePath), err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("open gzip %s: %w", filepath.Base(archivePath), err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar %s: %w", filepath.Base(archivePath), err)
		}

		target, err := securePath(destDir, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %q: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, func() (io.ReadCloser, error) {
				return io.NopCloser(tr), nil
			}); err != nil {
				return fmt.Errorf("extract %s: %w", header.Name, err)
			}
		default:
			// Symlinks and special files are not part of any known dataset
			// archive; skip them rather than materialize surprises.
		}
	}
}

// writeEntry creates target from the entry's contents unless it already
// exists. Existing files win; the archive never replaces them.
func writeEntry(target string, open func() (io.ReadCloser, error)) error {
	if _, err := os.Stat(target); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	in, err := open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(target)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return err
	}
	return nil
}

// securePath joins an archive entry name onto destDir, rejecting entries
// that would escape it.
func securePath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return filepath.Join(destDir, cleaned), nil
}
