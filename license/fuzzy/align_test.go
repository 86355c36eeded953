package fuzzy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quay/licenseassess"
	"github.com/quay/licenseassess/tokenindex"
)

func TestMatchFileVerbatimEmbeddedHeader(t *testing.T) {
	patternText := "this program is free software licensed under version 2 of the gnu general public license"
	fileText := "copyright 2024 acme corp " + patternText + " end of file"

	file := tokenindex.Build(fileText)
	pattern := tokenindex.BuildPattern("GPL-2.0", patternText)

	candidates := MatchFile(file, []assess.PatternIndex{pattern})
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}

	got := candidates[0]
	if got.MatchPercent != 100 {
		t.Errorf("MatchPercent = %v, want 100", got.MatchPercent)
	}
	if got.LicenseName != "GPL-2.0" {
		t.Errorf("LicenseName = %q, want GPL-2.0", got.LicenseName)
	}
	if got.MatchedSubstring != patternText {
		t.Errorf("MatchedSubstring = %q, want %q", got.MatchedSubstring, patternText)
	}
	if diff := cmp.Diff([]string{"2.0"}, got.ExpectedVersions); diff != "" {
		t.Errorf("ExpectedVersions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2.0"}, got.FoundVersions); diff != "" {
		t.Errorf("FoundVersions mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchFileNoSharedAnchorsYieldsNoCandidate(t *testing.T) {
	file := tokenindex.Build("an entirely unrelated document about cooking pasta")
	pattern := tokenindex.BuildPattern("MIT", "permission is hereby granted free of charge to any person")

	candidates := MatchFile(file, []assess.PatternIndex{pattern})
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestMatchFileBoundedGapToleratesInsertion(t *testing.T) {
	patternText := "redistribution and use in source and binary forms are permitted"
	// A single word ("hereby") is inserted mid-pattern in the file copy;
	// the bounded-gap resync should absorb it without breaking alignment.
	fileText := "redistribution and use in source and binary forms hereby are permitted"

	file := tokenindex.Build(fileText)
	pattern := tokenindex.BuildPattern("BSD", patternText)

	candidates := MatchFile(file, []assess.PatternIndex{pattern})
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].MatchPercent <= MatchThreshold {
		t.Errorf("MatchPercent = %v, want > %v despite the inserted word", candidates[0].MatchPercent, MatchThreshold)
	}
}
