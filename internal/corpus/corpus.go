// Package corpus defines the static table of known speech datasets and the
// role mapping that routes their audio into the foreground (clean speech) or
// background (noise) side of the destination tree.
package corpus

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Role says which side of the corpus a collection feeds.
type Role int

const (
	// RoleForeground is clean speech, the training target signal.
	RoleForeground Role = iota
	// RoleBackground is noise, the interference signal.
	RoleBackground
)

func (r Role) String() string {
	switch r {
	case RoleForeground:
		return "foreground"
	case RoleBackground:
		return "background"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Source is one downloadable archive of a dataset.
type Source struct {
	URL string
}

// Filename returns the archive filename derived from the URL's last path
// segment.
func (s Source) Filename() (string, error) {
	parsed, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("parse source url: %w", err)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("source url %q has no filename segment", s.URL)
	}
	return name, nil
}

// Collection maps an extraction-relative subtree onto a destination role.
// An empty Subtree means the dataset's whole raw directory.
type Collection struct {
	Subtree string
	Role    Role
}

// Dataset describes one known corpus: where its archives live, how to tell
// it is already materialized, and which extracted subtrees feed which role.
type Dataset struct {
	Name        string
	Description string
	Sources     []Source
	// Markers are extraction-relative directories whose presence means the
	// dataset is already materialized. Empty means "any .wav under the raw
	// root" for datasets without a fixed substructure.
	Markers     []string
	Collections []Collection
}

// Known dataset names, in processing order.
const (
	NameDNSMOS      = "dnsmos"
	NameVoiceBank   = "voicebank"
	NameLibriSpeech = "librispeech"
	NameDAPS        = "daps"
	NameVCTK        = "vctk"
)

var datasets = []Dataset{
	{
		Name:        NameDNSMOS,
		Description: "DNS challenge MOS evaluation clips",
		Sources: []Source{
			{URL: "https://dnschallengepublic.blob.core.windows.net/dns4archive/DNSMOS.zip"},
		},
		// No fixed substructure; materialized when any .wav exists.
		Collections: []Collection{
			{Subtree: "", Role: RoleBackground},
		},
	},
	{
		Name:        NameVoiceBank,
		Description: "VoiceBank+DEMAND 28spk training set (clean and noisy)",
		Sources: []Source{
			{URL: "https://datashare.ed.ac.uk/bitstream/handle/10283/2791/clean_trainset_28spk_wav.zip"},
			{URL: "https://datashare.ed.ac.uk/bitstream/handle/10283/2791/noisy_trainset_28spk_wav.zip"},
		},
		Markers: []string{"clean_trainset_28spk_wav", "noisy_trainset_28spk_wav"},
		Collections: []Collection{
			{Subtree: "clean_trainset_28spk_wav", Role: RoleForeground},
			{Subtree: "noisy_trainset_28spk_wav", Role: RoleBackground},
		},
	},
	{
		Name:        NameLibriSpeech,
		Description: "LibriSpeech train-clean-100",
		Sources: []Source{
			{URL: "https://www.openslr.org/resources/12/train-clean-100.tar.gz"},
		},
		Markers: []string{"LibriSpeech/train-clean-100"},
		Collections: []Collection{
			{Subtree: "LibriSpeech/train-clean-100", Role: RoleForeground},
		},
	},
	{
		Name:        NameDAPS,
		Description: "Device and Produced Speech (clean recordings)",
		Sources: []Source{
			{URL: "https://zenodo.org/record/4660670/files/daps.tar.gz"},
		},
		Markers: []string{"daps"},
		Collections: []Collection{
			{Subtree: "daps/clean", Role: RoleForeground},
		},
	},
	{
		Name:        NameVCTK,
		Description: "VCTK multi-speaker corpus (48 kHz wav)",
		Sources: []Source{
			{URL: "https://datashare.ed.ac.uk/bitstream/handle/10283/2651/VCTK-Corpus.zip"},
		},
		Markers: []string{"VCTK-Corpus/wav48"},
		Collections: []Collection{
			{Subtree: "VCTK-Corpus/wav48", Role: RoleForeground},
		},
	},
}

// All returns the known datasets in their fixed processing order.
func All() []Dataset {
	out := make([]Dataset, len(datasets))
	copy(out, datasets)
	return out
}

// Names returns the known dataset names in processing order.
func Names() []string {
	names := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		names = append(names, ds.Name)
	}
	return names
}

// Lookup finds a dataset by name.
func Lookup(name string) (Dataset, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, ds := range datasets {
		if ds.Name == needle {
			return ds, true
		}
	}
	return Dataset{}, false
}

// Resolve turns a requested selection into the concrete set to process,
// preserving the fixed processing order. An empty selection means all
// datasets. Unknown names are rejected.
func Resolve(names []string) ([]Dataset, error) {
	if len(names) == 0 {
		return All(), nil
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		needle := strings.ToLower(strings.TrimSpace(name))
		if _, ok := Lookup(needle); !ok {
			return nil, Wrap(ErrUnknownDataset, needle, "resolve selection", "not a known dataset name", nil)
		}
		requested[needle] = true
	}
	selected := make([]Dataset, 0, len(requested))
	for _, ds := range datasets {
		if requested[ds.Name] {
			selected = append(selected, ds)
		}
	}
	return selected, nil
}
