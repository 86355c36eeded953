// Package normalize implements the canonical text transform every file's
// content and every license/header pattern is put through before matching.
//
// The pipeline is deterministic and idempotent: Normalize(Normalize(s)) ==
// Normalize(s) for any s.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	controlRunRE = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F]+")
	hexEscapeRE  = regexp.MustCompile(`(?:\\x[0-9A-Fa-f]{2})+`)
	whitespaceRE = regexp.MustCompile(`\s+`)

	foldCase = cases.Fold()

	// stripMarks removes every rune in Unicode general category M (Mn, Mc,
	// Me): accents, diacritics, and similar combining marks.
	stripMarks = runes.Remove(runes.In(unicode.M))
)

// asciiPunct is the classic C-locale punctuation set (Python's
// string.punctuation): every printable ASCII character that is neither a
// letter, digit, nor space.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var isASCIIPunct [256]bool

func init() {
	for i := 0; i < len(asciiPunct); i++ {
		isASCIIPunct[asciiPunct[i]] = true
	}
}

// Normalize runs the canonical pipeline over s:
//
//  1. runs of control characters (excluding \n, \r, \t) collapse to a single
//     space.
//  2. literal "\xNN" hex-escape sequences collapse to a single space.
//  3. the literal sequence "\&." is rewritten to "." (troff/man-page
//     artifact cleanup).
//  4. ASCII punctuation is removed, except a '.' with a digit on both
//     sides.
//  5. Unicode NFKC normalization.
//  6. combining marks (Unicode category M) are stripped; the text is
//     canonically decomposed first and recomposed afterwards, so accented
//     letters such as "é" lose their accent.
//  7. casefolding.
//  8. runs of whitespace collapse to a single space, and the result is
//     trimmed.
func Normalize(s string) string {
	s = controlRunRE.ReplaceAllString(s, " ")
	s = hexEscapeRE.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, `\&.`, ".")
	s = stripPunctuation(s)
	s = norm.NFKC.String(s)
	s, _, _ = transform.String(transform.Chain(norm.NFD, stripMarks, norm.NFC), s)
	s = foldCase.String(s)
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripPunctuation removes every ASCII-punctuation rune from s, except a
// '.' that has a digit on both sides (so "1.0" and "1.0.0" survive intact).
func stripPunctuation(s string) string {
	rs := []rune(s)
	out := make([]rune, 0, len(rs))
	for i, r := range rs {
		if r > unicode.MaxASCII || !isASCIIPunct[r] {
			out = append(out, r)
			continue
		}
		if r == '.' {
			var prev, next rune
			if i > 0 {
				prev = rs[i-1]
			}
			if i+1 < len(rs) {
				next = rs[i+1]
			}
			if unicode.IsDigit(prev) && unicode.IsDigit(next) {
				out = append(out, r)
			}
			continue
		}
		// drop every other punctuation rune
	}
	return string(out)
}

