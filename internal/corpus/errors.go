package corpus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDownload marks a failed archive download. Recoverable: the owning
	// dataset is skipped and retried on the next run.
	ErrDownload = errors.New("download error")
	// ErrExtract marks a failed archive extraction. Recoverable like
	// ErrDownload.
	ErrExtract = errors.New("extract error")
	// ErrUnknownDataset marks a selection naming no known dataset. Fatal at
	// the argument-parsing boundary.
	ErrUnknownDataset = errors.New("unknown dataset")
)

// Wrap builds an error message that includes dataset context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, dataset, operation, message string, err error) error {
	detail := buildDetail(dataset, operation, message)
	if marker == nil {
		marker = ErrDownload
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(dataset, operation, message string) string {
	parts := make([]string, 0, 3)
	if dataset = strings.TrimSpace(dataset); dataset != "" {
		parts = append(parts, dataset)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "dataset failure"
	}
	return strings.Join(parts, ": ")
}
