// Package exact implements the ExactMatcher stage: substring-containment
// matching of known license texts against normalized file text.
package exact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	v2_3 "github.com/spdx/tools-golang/spdx/v2/v2_3"
	"gopkg.in/yaml.v3"

	"github.com/quay/licenseassess"
	"github.com/quay/licenseassess/normalize"
)

// CorpusEntry is one known license text, already normalized, ready for
// substring matching.
type CorpusEntry struct {
	Name string
	Text string
}

// LoadCorpusDir loads every regular file under dir as a CorpusEntry.
//
// A .json or .yaml/.yml file is first tried as an SPDX license-list style
// document (one or more {licenseId, licenseText} pairs); a .json file that
// doesn't decode that way is then tried as a full SPDX document whose
// otherLicenses entries (tools-golang's v2_3.OtherLicense) supply the
// identifier and extracted text. On successful decode, one CorpusEntry is
// produced per entry found. Anything that doesn't decode that way --
// including every plain .txt file -- is loaded as a single bare-text entry,
// named for the file's stem.
func LoadCorpusDir(dir string) ([]CorpusEntry, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &assess.Error{Op: "exact.LoadCorpusDir", Kind: assess.ErrIO, Inner: err}
	}

	var out []CorpusEntry
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(dir, de.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &assess.Error{Op: "exact.LoadCorpusDir", Kind: assess.ErrIO, Inner: err}
		}

		lower := strings.ToLower(de.Name())
		switch {
		case strings.HasSuffix(lower, ".json"):
			if decoded, ok := decodeSPDXJSON(raw); ok {
				out = append(out, decoded...)
				continue
			}
		case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
			if decoded, ok := decodeSPDXYAML(raw); ok {
				out = append(out, decoded...)
				continue
			}
		}

		stem := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		out = append(out, CorpusEntry{Name: stem, Text: normalize.Normalize(string(raw))})
	}
	return out, nil
}

// spdxLicenseJSON mirrors the field names used by the SPDX
// license-list-data documents, in both their JSON and YAML forms. The
// SPDX-document otherLicenses shape is decoded separately, through
// tools-golang's v2_3.OtherLicense.
type spdxLicenseJSON struct {
	LicenseID   string `json:"licenseId" yaml:"licenseId"`
	LicenseText string `json:"licenseText" yaml:"licenseText"`
	Name        string `json:"name" yaml:"name"`
}

func decodeSPDXJSON(raw []byte) ([]CorpusEntry, bool) {
	var list []spdxLicenseJSON
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return toEntries(list), true
	}
	var one spdxLicenseJSON
	if err := json.Unmarshal(raw, &one); err == nil && one.LicenseText != "" {
		return toEntries([]spdxLicenseJSON{one}), true
	}
	// Fall back to the SPDX-document "other license" shape tools-golang
	// exposes (a full SPDX document's ExtractedLicensingInfo, rather than
	// the flatter license-list-data schema tried above).
	var doc struct {
		OtherLicenses []v2_3.OtherLicense `json:"otherLicenses"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && len(doc.OtherLicenses) > 0 {
		out := make([]CorpusEntry, 0, len(doc.OtherLicenses))
		for _, ol := range doc.OtherLicenses {
			if ol.LicenseIdentifier == "" || ol.ExtractedText == "" {
				continue
			}
			out = append(out, CorpusEntry{Name: ol.LicenseIdentifier, Text: normalize.Normalize(ol.ExtractedText)})
		}
		if len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

func decodeSPDXYAML(raw []byte) ([]CorpusEntry, bool) {
	var list []spdxLicenseJSON
	if err := yaml.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return toEntries(list), true
	}
	var one spdxLicenseJSON
	if err := yaml.Unmarshal(raw, &one); err == nil && one.LicenseText != "" {
		return toEntries([]spdxLicenseJSON{one}), true
	}
	return nil, false
}

func toEntries(list []spdxLicenseJSON) []CorpusEntry {
	out := make([]CorpusEntry, 0, len(list))
	for _, l := range list {
		name := l.LicenseID
		if name == "" {
			name = l.Name
		}
		if name == "" || l.LicenseText == "" {
			continue
		}
		out = append(out, CorpusEntry{Name: name, Text: normalize.Normalize(l.LicenseText)})
	}
	return out
}
