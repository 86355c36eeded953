// Package fuzzy implements the FuzzyMatcher stage: anchor-seeded,
// bounded-gap alignment between a file's token stream and a license
// header template's token stream.
package fuzzy

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/quay/licenseassess"
)

// AnchorLookahead is the bounded-gap resync window (k = 5 in spec terms).
const AnchorLookahead = 5

// MatchThreshold is the minimum match_percent a candidate needs to be kept
// at all; candidates at or below it are discarded before arbitration ever
// sees them.
const MatchThreshold = 50.0

// alignment tracks one in-progress seed as it's extended.
type alignment struct {
	fi, pj       int // next unmatched file/pattern token index
	matches      int
	firstFileIdx int
	lastFileIdx  int
}

// MatchFile finds the best MatchResult for each pattern in patterns against
// file, returning one candidate per pattern that cleared the anchor
// intersection test (regardless of MatchThreshold; callers filter).
func MatchFile(file assess.TokenIndex, patterns []assess.PatternIndex) []assess.MatchResult {
	var out []assess.MatchResult
	for _, p := range patterns {
		if best, ok := matchOne(file, p); ok {
			out = append(out, best)
		}
	}
	return out
}

func matchOne(file assess.TokenIndex, pattern assess.PatternIndex) (assess.MatchResult, bool) {
	var best assess.MatchResult
	haveBest := false

	for a := range pattern.AnchorSet {
		filePositions, ok := file.AnchorPositions[a]
		if !ok {
			continue
		}
		patternPositions := positionsOf(pattern, a)
		for _, i := range filePositions {
			for _, j := range patternPositions {
				al := alignment{
					fi:           i + tokenindexAnchorSize,
					pj:           j + tokenindexAnchorSize,
					matches:      tokenindexAnchorSize,
					firstFileIdx: i,
					lastFileIdx:  i + tokenindexAnchorSize - 1,
				}
				extend(&al, file, pattern)
				mr := toMatchResult(al, file, pattern)
				if !haveBest || mr.MatchPercent > best.MatchPercent {
					best = mr
					haveBest = true
				}
			}
		}
	}
	return best, haveBest
}

// tokenindexAnchorSize mirrors tokenindex.AnchorSize; duplicated as a
// constant here rather than importing tokenindex, since fuzzy only needs
// the number, not the indexer's build machinery.
const tokenindexAnchorSize = 4

// positionsOf finds every starting index in pattern.Tokens whose next
// tokenindexAnchorSize tokens equal the anchor a. PatternIndex only stores
// the anchor *set*, not positions (spec: "patterns use norm-only tokens and
// additionally expose the set of anchor keys for intersection"), so a
// pattern-side seed position is recovered by scanning.
func positionsOf(pattern assess.PatternIndex, a assess.Anchor) []int {
	var out []int
	for i := 0; i+tokenindexAnchorSize <= len(pattern.Tokens); i++ {
		match := true
		for k := 0; k < tokenindexAnchorSize; k++ {
			if pattern.Tokens[i+k] != a[k] {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out
}

// extend grows al greedily via bounded-gap alignment, per spec.md §4.F
// step 3: exact match advances both sides; otherwise each side searches up
// to AnchorLookahead positions ahead for the other's current token,
// preferring the shorter skip (ties favor the file side); if neither side
// finds a resync, both advance one position as an absorbed substitution.
func extend(al *alignment, file assess.TokenIndex, pattern assess.PatternIndex) {
	for al.fi < len(file.Tokens) && al.pj < len(pattern.Tokens) {
		if file.Tokens[al.fi].Norm == pattern.Tokens[al.pj] {
			al.matches++
			al.lastFileIdx = al.fi
			al.fi++
			al.pj++
			continue
		}

		fileSkip := findAhead(func(k int) bool { return al.fi+k < len(file.Tokens) && file.Tokens[al.fi+k].Norm == pattern.Tokens[al.pj] })
		patSkip := findAhead(func(k int) bool { return al.pj+k < len(pattern.Tokens) && pattern.Tokens[al.pj+k] == file.Tokens[al.fi].Norm })

		switch {
		case fileSkip >= 0 && patSkip >= 0:
			if patSkip < fileSkip {
				al.pj += patSkip
			} else {
				al.fi += fileSkip
			}
		case fileSkip >= 0:
			al.fi += fileSkip
		case patSkip >= 0:
			al.pj += patSkip
		default:
			al.fi++
			al.pj++
		}
	}
}

// findAhead returns the smallest k in [1, AnchorLookahead] for which found
// reports true, or -1 if none does.
func findAhead(found func(k int) bool) int {
	for k := 1; k <= AnchorLookahead; k++ {
		if found(k) {
			return k
		}
	}
	return -1
}

func toMatchResult(al alignment, file assess.TokenIndex, pattern assess.PatternIndex) assess.MatchResult {
	start := file.Tokens[al.firstFileIdx].Start
	end := file.Tokens[al.lastFileIdx].End
	substring := file.Text[start:end]
	percent := float64(al.matches) / float64(len(pattern.Tokens)) * 100

	name := LicenseNameFromLabel(pattern.Name)
	expected := ExpectedVersions(pattern.Name)
	found := FoundVersions(substring)

	return assess.MatchResult{
		MatchedSubstring: substring,
		MatchPercent:     percent,
		StartIndex:       start,
		EndIndex:         end,
		LicenseName:      name,
		ExpectedVersions: expected,
		FoundVersions:    found,
	}
}

var (
	templateVariantSuffixRE = regexp.MustCompile(`(?i)_v\d+$`)
	labelExtRE              = regexp.MustCompile(`^\.[A-Za-z]\w*$`)
)

// LicenseNameFromLabel derives license_name from a pattern's filename
// label: strip a file extension (a final dot followed by a letter-led word,
// so the version dot in "GPL-2.0-or-later" is kept), then strip a trailing
// "_v<digits>" template variant suffix if present.
func LicenseNameFromLabel(label string) string {
	name := filepath.Base(label)
	if ext := filepath.Ext(name); labelExtRE.MatchString(ext) {
		name = strings.TrimSuffix(name, ext)
	}
	return templateVariantSuffixRE.ReplaceAllString(name, "")
}
