package fuzzy

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var digitRunRE = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ExpectedVersions extracts every digit run (optionally followed by
// ".digits") from a pattern's filename label, normalizing bare integers to
// "<n>.0".
//
// Grounded on original_source/utils.py's extract_versions_from_name /
// normalize_number_strings: "GPL-2.0-or-later" -> ["2.0"],
// "APL-2.0-GPL-3.0" -> ["2.0", "3.0"], "ECL-2" -> ["2.0"].
func ExpectedVersions(label string) []string {
	name := filepath.Base(label)
	found := digitRunRE.FindAllString(name, -1)
	if len(found) == 0 {
		return nil
	}
	out := make([]string, len(found))
	for i, v := range found {
		out[i] = normalizeNumberString(v)
	}
	return out
}

// normalizeNumberString turns a bare integer string into "<n>.0" and
// leaves anything already containing a decimal point unchanged.
func normalizeNumberString(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n) + ".0"
	}
	return s
}

var (
	versionWordRE = regexp.MustCompile(`(?i)\bversion\s+(\d+(?:\.\d+)?)`)
	vPrefixRE     = regexp.MustCompile(`(?i)\bv\.?\s*(\d+(?:\.\d+)?)`)
	licenseWordRE = regexp.MustCompile(`(?i)\blicense\s+(\d+(?:\.\d+)?)`)
)

// FoundVersions extracts version numbers out of matchedSubstring by
// searching, case-insensitively, for "version <num>", "v"/"v." followed by
// <num>, and "license <num>". Results are deduplicated preserving the
// order in which they first appear in matchedSubstring, and normalized the
// same way ExpectedVersions is.
func FoundVersions(matchedSubstring string) []string {
	type hit struct {
		pos int
		val string
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{versionWordRE, vPrefixRE, licenseWordRE} {
		for _, m := range re.FindAllStringSubmatchIndex(matchedSubstring, -1) {
			hits = append(hits, hit{pos: m[0], val: matchedSubstring[m[2]:m[3]]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[string]bool)
	var out []string
	for _, h := range hits {
		v := normalizeNumberString(h.val)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
