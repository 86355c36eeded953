// Package keyword implements the KeywordScanner stage: category-grouped
// term lists matched against a file's normalized token stream, with
// whole-token boundaries guaranteed by matching tokens rather than raw
// substrings.
package keyword

import (
	"strings"

	"github.com/quay/licenseassess"
	"github.com/quay/licenseassess/normalize"
)

// Term is one category entry after normalization: its normalized text, split
// into tokens the same way a file's token stream is.
type Term struct {
	Text   string
	Tokens []string
}

// Corpus maps a category name to its terms, in the category's original order
// with within-category duplicates removed.
type Corpus map[string][]Term

// BuildCorpus normalizes and tokenizes every term in categories, preserving
// category and within-category order while dropping duplicate terms (by
// normalized text) within a category.
func BuildCorpus(categories map[string][]string) Corpus {
	c := make(Corpus, len(categories))
	for name, raw := range categories {
		seen := make(map[string]bool, len(raw))
		terms := make([]Term, 0, len(raw))
		for _, r := range raw {
			norm := normalize.Normalize(r)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			terms = append(terms, Term{Text: norm, Tokens: strings.Fields(norm)})
		}
		if len(terms) > 0 {
			c[name] = terms
		}
	}
	return c
}

// Scan matches every category's terms against file's normalized token
// stream, per spec: single-token terms are tested by set membership;
// multi-token terms are matched by scanning positions whose token equals the
// term's first token, then comparing the following run for equality. The
// result maps each category with at least one hit to its matched terms, in
// the category's original order.
func Scan(file assess.TokenIndex, corpus Corpus) map[string][]string {
	if len(corpus) == 0 {
		return nil
	}

	tokenSet := make(map[string]bool, len(file.Tokens))
	for _, tok := range file.Tokens {
		tokenSet[tok.Norm] = true
	}

	out := make(map[string][]string, len(corpus))
	for category, terms := range corpus {
		var found []string
		for _, term := range terms {
			if len(term.Tokens) == 0 {
				continue
			}
			if len(term.Tokens) == 1 {
				if tokenSet[term.Tokens[0]] {
					found = append(found, term.Text)
				}
				continue
			}
			if containsRun(file, term.Tokens) {
				found = append(found, term.Text)
			}
		}
		if len(found) > 0 {
			out[category] = found
		}
	}
	return out
}

// containsRun reports whether run appears, in order, as a contiguous slice
// of file's normalized token stream.
func containsRun(file assess.TokenIndex, run []string) bool {
	first := run[0]
	for i := range file.Tokens {
		if file.Tokens[i].Norm != first {
			continue
		}
		if i+len(run) > len(file.Tokens) {
			continue
		}
		match := true
		for k := 1; k < len(run); k++ {
			if file.Tokens[i+k].Norm != run[k] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
