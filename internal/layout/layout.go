// Package layout owns the destination directory tree the pipeline populates:
// fg/<lang> and bg/<lang> for collected audio, rir/ provisioned for room
// impulse responses, and raw/<dataset> for archives and extracted trees.
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"fetchcorpus/internal/corpus"
)

// Layout resolves destination paths under a single root, keyed by language.
type Layout struct {
	Root     string
	Language string
}

// New validates the language tag and returns a layout rooted at root.
func New(root, lang string) (*Layout, error) {
	if root == "" {
		return nil, fmt.Errorf("layout: root must not be empty")
	}
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("layout: language %q: %w", lang, err)
	}
	return &Layout{Root: root, Language: lang}, nil
}

// ForegroundDir is the flat destination for clean speech.
func (l *Layout) ForegroundDir() string {
	return filepath.Join(l.Root, "fg", l.Language)
}

// BackgroundDir is the flat destination for noise.
func (l *Layout) BackgroundDir() string {
	return filepath.Join(l.Root, "bg", l.Language)
}

// RIRDir is provisioned for room impulse responses. Nothing populates it yet.
func (l *Layout) RIRDir() string {
	return filepath.Join(l.Root, "rir")
}

// RawDir holds a dataset's archives and extracted tree.
func (l *Layout) RawDir(dataset string) string {
	return filepath.Join(l.Root, "raw", dataset)
}

// RoleDir maps a collection role onto its destination directory.
func (l *Layout) RoleDir(role corpus.Role) string {
	if role == corpus.RoleBackground {
		return l.BackgroundDir()
	}
	return l.ForegroundDir()
}

// Ensure creates the shared destination directories. Runs before any
// dataset work so every copy has a target.
func (l *Layout) Ensure() error {
	for _, dir := range []string{l.ForegroundDir(), l.BackgroundDir(), l.RIRDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnsureRaw creates a dataset's raw directory.
func (l *Layout) EnsureRaw(dataset string) (string, error) {
	dir := l.RawDir(dataset)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", dir, err)
	}
	return dir, nil
}
