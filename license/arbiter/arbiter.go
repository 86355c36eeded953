// Package arbiter implements the MatchArbiter stage: it picks, from every
// fuzzy-match candidate on a file, the winner(s) that become
// best_fuzzy_match and get appended to license_names.
//
// The FSM-like shape (partition, then dispatch on which partition is
// non-empty) mirrors the priority-ordered state dispatch in
// indexer/controller/controller.go's run loop, adapted from "which stage
// runs next" to "which version-agreement class wins".
package arbiter

import (
	"sort"

	"github.com/quay/licenseassess"
)

// Arbitrate partitions rec's FuzzyLicenseCandidates into the
// all-versions-agree (A), some-overlap (C), and no-overlap (N) classes and
// applies priority A > C > N: only the highest-priority non-empty class is
// considered. Its winner(s) are appended to rec.LicenseNames and the last
// one processed becomes rec.BestFuzzyMatch.
//
// Arbitrate is a no-op if rec has no candidates.
func Arbitrate(rec *assess.FileRecord) {
	if len(rec.FuzzyLicenseCandidates) == 0 {
		return
	}

	var a, c, n []assess.MatchResult
	for _, cand := range rec.FuzzyLicenseCandidates {
		switch classify(cand) {
		case classAgree:
			a = append(a, cand)
		case classOverlap:
			c = append(c, cand)
		default:
			n = append(n, cand)
		}
	}

	switch {
	case len(a) > 0:
		winner := pickAgreeWinner(a)
		rec.BestFuzzyMatch = winner
		rec.LicenseNames = append(rec.LicenseNames, winner.LicenseName)
	case len(c) > 0:
		winners, last := pickOverlapWinners(c)
		for _, w := range winners {
			rec.LicenseNames = append(rec.LicenseNames, w.LicenseName)
		}
		rec.BestFuzzyMatch = last
	default:
		winner := pickMaxPercent(n)
		rec.BestFuzzyMatch = winner
		rec.LicenseNames = append(rec.LicenseNames, winner.LicenseName)
	}
}

type versionClass int

const (
	classNone versionClass = iota
	classAgree
	classOverlap
)

// classify decides which of A/C/N a candidate falls in by comparing the
// multisets of its expected and found versions.
func classify(mr assess.MatchResult) versionClass {
	if multisetEqual(mr.ExpectedVersions, mr.FoundVersions) {
		return classAgree
	}
	if overlaps(mr.ExpectedVersions, mr.FoundVersions) {
		return classOverlap
	}
	return classNone
}

func multisetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := sortedCopy(a), sortedCopy(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func overlaps(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true
		}
	}
	return false
}

func sortedCopy(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

// pickAgreeWinner implements the A-class rule: among candidates that
// actually found versions, the max match_percent wins (ties go to
// encounter order); if none found any versions, the max among the
// (necessarily all-empty-found_versions) group wins instead.
func pickAgreeWinner(candidates []assess.MatchResult) assess.MatchResult {
	var withVersions []assess.MatchResult
	for _, c := range candidates {
		if len(c.FoundVersions) > 0 {
			withVersions = append(withVersions, c)
		}
	}
	if len(withVersions) > 0 {
		return pickMaxPercent(withVersions)
	}
	return pickMaxPercent(candidates)
}

// pickOverlapWinners implements the C-class rule: iterate candidates in
// encounter order, tracking which found version each currently-adopted
// winner "covers". A candidate is adopted for a version v it found if v
// isn't covered yet, or if this candidate strictly beats (by match_percent)
// every previously adopted candidate covering v -- in which case those
// weaker covers are displaced. The last candidate adopted for any version,
// in encounter order, is returned as last.
func pickOverlapWinners(candidates []assess.MatchResult) (winners []assess.MatchResult, last assess.MatchResult) {
	coveredBy := make(map[string]*assess.MatchResult) // version -> adopted candidate
	var order []*assess.MatchResult

	for i := range candidates {
		cand := &candidates[i]
		adopted := false
		for _, v := range cand.FoundVersions {
			cur, ok := coveredBy[v]
			if !ok {
				coveredBy[v] = cand
				adopted = true
				continue
			}
			if cand.MatchPercent > cur.MatchPercent {
				coveredBy[v] = cand
				adopted = true
			}
		}
		if adopted {
			order = append(order, cand)
			last = *cand
		}
	}

	// De-duplicate while preserving the order winners were (last) adopted
	// in, since a later candidate may have displaced an earlier one's
	// cover without removing it from `order`.
	seen := make(map[*assess.MatchResult]bool)
	for _, w := range order {
		stillCovers := false
		for _, c := range coveredBy {
			if c == w {
				stillCovers = true
				break
			}
		}
		if stillCovers && !seen[w] {
			seen[w] = true
			winners = append(winners, *w)
		}
	}
	return winners, last
}

func pickMaxPercent(candidates []assess.MatchResult) assess.MatchResult {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.MatchPercent > best.MatchPercent {
			best = c
		}
	}
	return best
}
