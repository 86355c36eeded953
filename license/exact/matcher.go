package exact

import (
	"strings"

	"github.com/quay/licenseassess"
)

// Match applies every corpus entry against rec's normalized text, recording
// a hit for each license whose (already-normalized) text is contained in
// the file's normalized text.
//
// Exact matching is case-insensitive only because both sides were already
// casefolded by the Normalizer; Match itself does no further case
// adjustment.
func Match(rec *assess.FileRecord, corpus []CorpusEntry) {
	if rec.NormalizedText == "" {
		return
	}
	for _, entry := range corpus {
		if entry.Text == "" || len(entry.Text) > len(rec.NormalizedText) {
			continue
		}
		if strings.Contains(rec.NormalizedText, entry.Text) {
			rec.ExactLicenseMatches = append(rec.ExactLicenseMatches, assess.ExactMatch{
				LicenseName: entry.Name,
				LicenseText: entry.Text,
			})
			rec.LicenseNames = append(rec.LicenseNames, entry.Name)
		}
	}
	if len(rec.ExactLicenseMatches) > 0 {
		rec.LicenseMatchStrength = assess.StrengthExact
	}
}
