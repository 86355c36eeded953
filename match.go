package assess

// MatchResult is one candidate alignment produced by the fuzzy matcher (or
// promoted, as a degenerate case, from the exact matcher's perspective).
type MatchResult struct {
	// MatchedSubstring is the slice of the file's NormalizedText that the
	// alignment covers.
	MatchedSubstring string
	// MatchPercent is matches / len(pattern tokens) * 100, in [0, 100].
	MatchPercent float64
	// StartIndex and EndIndex are character offsets into NormalizedText.
	StartIndex, EndIndex int
	// LicenseName is the pattern's filename label with any "_v<digits>"
	// version suffix stripped.
	LicenseName string
	// ExpectedVersions are the numeric version tokens parsed from the
	// pattern's own label.
	ExpectedVersions []string
	// FoundVersions are the numeric version tokens parsed out of
	// MatchedSubstring.
	FoundVersions []string
}

// IsZero reports whether r is the unset MatchResult value.
func (r MatchResult) IsZero() bool {
	return r.LicenseName == "" && r.MatchPercent == 0 && r.MatchedSubstring == ""
}
