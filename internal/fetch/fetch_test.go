package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"fetchcorpus/internal/config"
	"fetchcorpus/internal/corpus"
	"fetchcorpus/internal/logging"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := config.Default()
	f := New(&cfg, logging.NewNop())
	f.SetProgress(false)
	return f
}

func TestEnsureArchiveDownloads(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, "archive bytes")
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := newTestFetcher(t)

	path, downloaded, err := f.EnsureArchive(context.Background(), "daps", corpus.Source{URL: srv.URL + "/daps.tar.gz"}, dir)
	if err != nil {
		t.Fatalf("EnsureArchive: %v", err)
	}
	if !downloaded {
		t.Fatal("expected download to happen")
	}
	if path != filepath.Join(dir, "daps.tar.gz") {
		t.Fatalf("unexpected path %q", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "archive bytes" {
		t.Fatalf("content mismatch: %q", got)
	}
	if _, err := os.Stat(path + partialSuffix); !os.IsNotExist(err) {
		t.Fatal("partial file left behind after success")
	}
}

func TestEnsureArchiveSkipsWhenPresent(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "daps.tar.gz")
	if err := os.WriteFile(existing, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newTestFetcher(t)
	path, downloaded, err := f.EnsureArchive(context.Background(), "daps", corpus.Source{URL: srv.URL + "/daps.tar.gz"}, dir)
	if err != nil {
		t.Fatalf("EnsureArchive: %v", err)
	}
	if downloaded {
		t.Fatal("expected skip for existing archive")
	}
	if path != existing {
		t.Fatalf("unexpected path %q", path)
	}
	if requests.Load() != 0 {
		t.Fatalf("expected zero network requests, saw %d", requests.Load())
	}
}

func TestEnsureArchiveFailureCleansPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := newTestFetcher(t)

	_, _, err := f.EnsureArchive(context.Background(), "vctk", corpus.Source{URL: srv.URL + "/VCTK-Corpus.zip"}, dir)
	if !errors.Is(err, corpus.ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected clean directory after failure, found %v", entries)
	}
}

func TestEnsureArchiveResumesPartial(t *testing.T) {
	const full = "hello world"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "bytes=6-" {
			t.Errorf("expected range request, got %q", r.Header.Get("Range"))
		}
		w.Header().Set("Content-Range", fmt.Sprintf("bytes 6-%d/%d", len(full)-1, len(full)))
		w.WriteHeader(http.StatusPartialContent)
		fmt.Fprint(w, full[6:])
	}))
	defer srv.Close()

	dir := t.TempDir()
	partial := filepath.Join(dir, "corpus.zip"+partialSuffix)
	if err := os.WriteFile(partial, []byte(full[:6]), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newTestFetcher(t)
	path, downloaded, err := f.EnsureArchive(context.Background(), "dnsmos", corpus.Source{URL: srv.URL + "/corpus.zip"}, dir)
	if err != nil {
		t.Fatalf("EnsureArchive: %v", err)
	}
	if !downloaded {
		t.Fatal("expected download")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != full {
		t.Fatalf("resumed content mismatch: %q", got)
	}
}

func TestEnsureArchiveRestartsWhenRangeIgnored(t *testing.T) {
	const full = "complete body"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Plain 200 regardless of the Range header.
		fmt.Fprint(w, full)
	}))
	defer srv.Close()

	dir := t.TempDir()
	partial := filepath.Join(dir, "corpus.zip"+partialSuffix)
	if err := os.WriteFile(partial, []byte("stale prefix"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newTestFetcher(t)
	path, _, err := f.EnsureArchive(context.Background(), "dnsmos", corpus.Source{URL: srv.URL + "/corpus.zip"}, dir)
	if err != nil {
		t.Fatalf("EnsureArchive: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != full {
		t.Fatalf("expected restart from zero, got %q", got)
	}
}

func TestProbeFailureDoesNotBlockDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			http.Error(w, "no head support", http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.Default()
	f := New(&cfg, logging.NewNop())
	f.SetProgress(false)

	path, downloaded, err := f.EnsureArchive(context.Background(), "librispeech", corpus.Source{URL: srv.URL + "/train-clean-100.tar.gz"}, dir)
	if err != nil {
		t.Fatalf("probe failure must not abort the download: %v", err)
	}
	if !downloaded {
		t.Fatal("expected download")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestEnsureArchiveUnreachableHost(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Fetch.Probe = false
	cfg.Fetch.RequestTimeout = 1
	f := New(&cfg, logging.NewNop())
	f.SetProgress(false)

	_, _, err := f.EnsureArchive(context.Background(), "daps", corpus.Source{URL: "http://127.0.0.1:1/daps.tar.gz"}, dir)
	if !errors.Is(err, corpus.ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
}
