// Package report renders a FileRegistry as the tabular CSV report that a
// license assessment run produces. It's a thin external-facing boundary
// around the core scanning pipeline, not itself part of the matching
// pipeline.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/quay/licenseassess"
)

// Columns is the exact, ordered CSV header this package writes.
var Columns = []string{
	"File Name",
	"License",
	"Match %",
	"Fuzzy Licenses",
	"Full License",
	"Is Released",
	"Is Empty",
	"Keywords",
	"Hash",
}

// Write renders every record in reg as one CSV row to w, sorted by
// RelativePath for a stable, reviewable diff between runs.
func Write(w io.Writer, reg *assess.Registry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return &assess.Error{Op: "report.Write", Kind: assess.ErrIO, Inner: err}
	}

	records := reg.All()
	sort.Slice(records, func(i, j int) bool { return records[i].RelativePath < records[j].RelativePath })

	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return &assess.Error{Op: "report.Write", Kind: assess.ErrIO, Inner: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &assess.Error{Op: "report.Write", Kind: assess.ErrIO, Inner: err}
	}
	return nil
}

// WriteFile is a convenience wrapper that creates path and calls Write.
func WriteFile(path string, reg *assess.Registry) error {
	f, err := os.Create(path)
	if err != nil {
		return &assess.Error{Op: "report.WriteFile", Kind: assess.ErrIO, Inner: err}
	}
	defer f.Close()
	return Write(f, reg)
}

func row(rec *assess.FileRecord) []string {
	return []string{
		fileURI(rec.Path),
		strings.Join(rec.LicenseNames, "; "),
		matchPercent(rec),
		fuzzyLicenses(rec),
		fullLicense(rec),
		strconv.FormatBool(rec.IsReleased),
		strconv.FormatBool(rec.IsEmpty),
		keywords(rec),
		rec.ContentHash.String(),
	}
}

// fileURI renders path as a plain file:// URI. Per spec.md §6's
// classification of the ReportWriter as an external collaborator, no
// spreadsheet hyperlink formula or styling is applied -- the cell holds the
// URI text itself.
func fileURI(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

func matchPercent(rec *assess.FileRecord) string {
	if !rec.HasBestFuzzyMatch() {
		return ""
	}
	return fmt.Sprintf("%.2f", rec.BestFuzzyMatch.MatchPercent)
}

func fuzzyLicenses(rec *assess.FileRecord) string {
	names := make([]string, 0, len(rec.FuzzyLicenseCandidates))
	for _, c := range rec.FuzzyLicenseCandidates {
		names = append(names, c.LicenseName)
	}
	return strings.Join(names, "; ")
}

func fullLicense(rec *assess.FileRecord) string {
	if len(rec.ExactLicenseMatches) > 0 {
		return rec.ExactLicenseMatches[0].LicenseText
	}
	if rec.HasBestFuzzyMatch() {
		return rec.BestFuzzyMatch.MatchedSubstring
	}
	return ""
}

func keywords(rec *assess.FileRecord) string {
	if len(rec.KeywordMatches) == 0 {
		return ""
	}
	categories := make([]string, 0, len(rec.KeywordMatches))
	for category := range rec.KeywordMatches {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, category := range categories {
		parts = append(parts, fmt.Sprintf("%s: %s", category, strings.Join(rec.KeywordMatches[category], ", ")))
	}
	return strings.Join(parts, "; ")
}
