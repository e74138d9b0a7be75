package pipeline

import (
	"time"

	"fetchcorpus/internal/corpus"
)

// DatasetStatus is the terminal state of one dataset within a run.
type DatasetStatus string

const (
	// StatusCollected means the dataset's audio reached the destination
	// folders (possibly with nothing new to copy).
	StatusCollected DatasetStatus = "collected"
	// StatusSkipped means a recoverable failure stopped this dataset.
	// Downloaded state is left in place for the next run.
	StatusSkipped DatasetStatus = "skipped"
)

// DatasetResult records what happened to one dataset.
type DatasetResult struct {
	Dataset         corpus.Dataset
	Status          DatasetStatus
	Materialized    bool
	ArchivesFetched int
	FilesFound      int
	FilesCopied     int
	FilesSkipped    int
	Err             error
}

// Report summarizes a whole pipeline run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Results  []DatasetResult
}

// Failed returns the results of datasets that were skipped.
func (r *Report) Failed() []DatasetResult {
	var failed []DatasetResult
	for _, result := range r.Results {
		if result.Status == StatusSkipped {
			failed = append(failed, result)
		}
	}
	return failed
}

// Copied returns the total number of files copied across all datasets.
func (r *Report) Copied() int {
	total := 0
	for _, result := range r.Results {
		total += result.FilesCopied
	}
	return total
}
