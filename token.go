package assess

// Token is one whitespace-delimited span of a normalized text, together with
// its normalized form and character offsets into that text.
//
// Word and Norm are equal for any text the Normalizer has already
// casefolded, which is every text the Indexer ever tokenizes; Norm is kept
// as a distinct field because PatternIndex tokens carry only it.
type Token struct {
	Word       string
	Norm       string
	Start, End int
}

// Anchor is an ordered 4-tuple of normalized tokens, used as a seed for
// fuzzy alignment.
type Anchor [4]string

// TokenIndex is the tokenization of one file's normalized text: the ordered
// token stream, plus a map from every 4-gram anchor to the ascending list of
// token indices where that anchor begins.
//
// Token spans are non-overlapping and strictly ascending by Start. For any
// anchor present in AnchorPositions, the position list is strictly
// ascending, and every position p satisfies
// (Tokens[p].Norm, ..., Tokens[p+3].Norm) == anchor.
type TokenIndex struct {
	Text           string
	Tokens         []Token
	AnchorPositions map[Anchor][]int
}

// PatternIndex is the tokenization of a license/header pattern: like
// TokenIndex, but patterns need no character-span bookkeeping, so only the
// normalized token strings are kept. AnchorSet exposes the same keys as
// AnchorPositions, as a set, for O(1) anchor-key intersection against a
// TokenIndex.
type PatternIndex struct {
	// Name is the pattern's source label (e.g. a license identifier
	// derived from its filename).
	Name   string
	Tokens []string
	AnchorSet map[Anchor]struct{}
}
