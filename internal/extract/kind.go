package extract

import "strings"

// Kind is the recognized archive format of a downloaded file, resolved once
// from its filename when the archive is ensured.
type Kind int

const (
	// KindNone means the file is not a recognized archive and extraction is
	// a no-op (already-extracted or non-archival payloads).
	KindNone Kind = iota
	KindZip
	KindTarGz
)

func (k Kind) String() string {
	switch k {
	case KindZip:
		return "zip"
	case KindTarGz:
		return "tar.gz"
	default:
		return "none"
	}
}

// DetectKind maps a filename onto its archive kind.
func DetectKind(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return KindZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return KindTarGz
	default:
		return KindNone
	}
}
