package fuzzy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quay/licenseassess"
	"github.com/quay/licenseassess/normalize"
	"github.com/quay/licenseassess/tokenindex"
)

// LoadPatternDir loads every regular file under dir as a header template,
// indexing it once as a PatternIndex. The pattern's Name is the file's
// stem (extension stripped); LicenseNameFromLabel and ExpectedVersions are
// derived from that same stem downstream.
func LoadPatternDir(dir string) ([]assess.PatternIndex, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &assess.Error{Op: "fuzzy.LoadPatternDir", Kind: assess.ErrIO, Inner: err}
	}

	out := make([]assess.PatternIndex, 0, len(entries))
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(dir, de.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &assess.Error{Op: "fuzzy.LoadPatternDir", Kind: assess.ErrIO, Inner: err}
		}
		stem := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		normalized := normalize.Normalize(string(raw))
		out = append(out, tokenindex.BuildPattern(stem, normalized))
	}
	return out, nil
}
