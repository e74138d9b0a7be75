package extract

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectKind(t *testing.T) {
	cases := map[string]Kind{
		"clean_trainset_28spk_wav.zip": KindZip,
		"DNSMOS.ZIP":                   KindZip,
		"train-clean-100.tar.gz":       KindTarGz,
		"daps.tgz":                     KindTarGz,
		"README.md":                    KindNone,
		"archive.tar":                  KindNone,
	}
	for name, want := range cases {
		if got := DetectKind(name); got != want {
			t.Errorf("DetectKind(%q) = %v, want %v", name, got, want)
		}
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		header := &tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "corpus.zip")
	writeZip(t, archive, map[string]string{
		"clean/p226_001.wav": "clean audio",
		"clean/p226_002.wav": "more audio",
	})

	dest := filepath.Join(dir, "raw")
	if err := Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "clean", "p226_001.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "clean audio" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "corpus.tar.gz")
	writeTarGz(t, archive, map[string]string{
		"daps/clean/f1_script1.wav": "produced speech",
	})

	dest := filepath.Join(dir, "raw")
	if err := Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "daps", "clean", "f1_script1.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "produced speech" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestExtractNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "corpus.zip")
	writeZip(t, archive, map[string]string{"a.wav": "from archive"})

	dest := filepath.Join(dir, "raw")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(dest, "a.wav")
	if err := os.WriteFile(existing, []byte("already extracted"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	got, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "already extracted" {
		t.Fatalf("existing file was overwritten: %q", got)
	}
}

func TestExtractUnknownKindNoop(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(archive, []byte("not an archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "raw")
	if err := Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("no-op extraction should not create the destination")
	}
}

func TestExtractRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeZip(t, archive, map[string]string{"../outside.wav": "nope"})

	dest := filepath.Join(dir, "raw")
	if err := Extract(context.Background(), archive, dest); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	if _, err := os.Stat(filepath.Join(dir, "outside.wav")); !os.IsNotExist(err) {
		t.Fatal("traversal entry escaped the destination")
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "broken.tar.gz")
	if err := os.WriteFile(archive, []byte("definitely not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Extract(context.Background(), archive, filepath.Join(dir, "raw")); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
}
