// Package tokenindex builds the token streams and 4-gram anchor tables that
// the exact, fuzzy, and keyword matchers all work from.
//
// File indexing is parallelized with a bounded worker pool, the same shape
// as the teacher's layer-scanning fan-out: an errgroup with a concurrency
// limit, one goroutine launched per item, the first error cancels the rest.
package tokenindex

import (
	"context"
	"regexp"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/quay/licenseassess"
	"github.com/quay/licenseassess/normalize"
)

// AnchorSize is the number of consecutive normalized tokens that make up one
// anchor key.
const AnchorSize = 4

var tokenRE = regexp.MustCompile(`\S+`)

// Concurrency returns the worker-pool size the package uses by default:
// min(32, 2*NumCPU).
func Concurrency() int {
	n := 2 * runtime.NumCPU()
	if n > 32 {
		n = 32
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Build tokenizes normalizedText and builds its anchor table.
//
// Build does not normalize its input; callers pass text that has already
// been normalized (IndexRegistry reuses a record's NormalizedText if
// present, or normalizes Text itself first).
func Build(normalizedText string) assess.TokenIndex {
	ti := assess.TokenIndex{
		Text:            normalizedText,
		AnchorPositions: make(map[assess.Anchor][]int),
	}
	spans := tokenRE.FindAllStringIndex(normalizedText, -1)
	ti.Tokens = make([]assess.Token, len(spans))
	for i, sp := range spans {
		word := normalizedText[sp[0]:sp[1]]
		ti.Tokens[i] = assess.Token{Word: word, Norm: word, Start: sp[0], End: sp[1]}
	}
	for i := 0; i+AnchorSize <= len(ti.Tokens); i++ {
		a := anchorAt(ti.Tokens, i)
		ti.AnchorPositions[a] = append(ti.AnchorPositions[a], i)
	}
	return ti
}

func anchorAt(tokens []assess.Token, i int) assess.Anchor {
	var a assess.Anchor
	for k := 0; k < AnchorSize; k++ {
		a[k] = tokens[i+k].Norm
	}
	return a
}

// BuildPattern tokenizes a header/license pattern's normalized text into a
// PatternIndex: only the normalized token strings and an anchor-key set are
// kept, since patterns need no span bookkeeping.
func BuildPattern(name, normalizedText string) assess.PatternIndex {
	spans := tokenRE.FindAllString(normalizedText, -1)
	pi := assess.PatternIndex{
		Name:      name,
		Tokens:    spans,
		AnchorSet: make(map[assess.Anchor]struct{}),
	}
	for i := 0; i+AnchorSize <= len(pi.Tokens); i++ {
		var a assess.Anchor
		for k := 0; k < AnchorSize; k++ {
			a[k] = pi.Tokens[i+k]
		}
		pi.AnchorSet[a] = struct{}{}
	}
	return pi
}

// IndexRegistry walks every record in reg and populates its TokenIndex,
// returning the resulting map keyed by the record's RelativePath.
//
// If a record's NormalizedText is already set, it's reused as-is; otherwise
// it's produced by normalizing Text first. Indexing runs across a bounded
// worker pool; the first per-file error cancels the remaining work and is
// returned.
func IndexRegistry(ctx context.Context, reg *assess.Registry) (map[string]assess.TokenIndex, error) {
	out := make(map[string]assess.TokenIndex, reg.Len())
	type pair struct {
		path string
		idx  assess.TokenIndex
	}
	results := make(chan pair, reg.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Concurrency())

	reg.Range(func(_ string, rec *assess.FileRecord) bool {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if rec.NormalizedText == "" && rec.Text != "" {
				rec.NormalizedText = normalize.Normalize(rec.Text)
			}
			results <- pair{path: rec.RelativePath, idx: Build(rec.NormalizedText)}
			return nil
		})
		return true
	})

	if err := g.Wait(); err != nil {
		return nil, &assess.Error{Op: "tokenindex.IndexRegistry", Kind: assess.ErrInvariant, Inner: err}
	}
	close(results)
	for p := range results {
		out[p.path] = p.idx
	}
	return out, nil
}
