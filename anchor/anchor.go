// Package anchor locates the positions in a reference text where a
// candidate "anchor" motif begins — the coordinate origins later fed
// into the mismatch package's variant enumeration.
package anchor

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/secondarymetabolites/anchorsa/suffixindex"
)

// FindAnchors returns every start position of pattern as it occurs in
// idx's text. It is a thin composition over idx.Locate, kept as its
// own named operation because the mismatch enumerator treats anchor
// positions as opaque input regardless of how they were obtained — a
// caller may also supply positions discovered by some other motif
// caller entirely.
func FindAnchors(idx *suffixindex.Index, pattern []byte) []int32 {
	return idx.Locate(pattern)
}

// FindAnchorsMulti locates occurrences of every pattern in patterns
// within a single pass over text, for the common case of a panel of
// short anchor motifs searched against one large reference. It
// prefilters with an Aho-Corasick automaton built the same way
// coregx-coregex assembles one for its own large-literal-alternation
// strategy (github.com/coregx/ahocorasick's NewBuilder/AddPattern/
// Build/Find) so that patterns confirmed absent from text never reach
// the suffix-array search; patterns the prefilter does find are
// confirmed and enumerated via the same suffix-array search
// FindAnchors uses, so the two entry points always agree
// position-for-position.
//
// The returned map has one entry per pattern (keyed by its string
// form), including patterns with zero occurrences, whose value is
// nil — mirroring FindAnchors' empty-result convention.
func FindAnchorsMulti(text []byte, patterns [][]byte) (map[string][]int32, error) {
	result := make(map[string][]int32, len(patterns))
	for _, p := range patterns {
		result[string(p)] = nil
	}
	if len(patterns) == 0 {
		return result, nil
	}

	idx, err := suffixindex.Build(text)
	if err != nil {
		return nil, err
	}

	builder := ahocorasick.NewBuilder()
	for _, p := range patterns {
		builder.AddPattern(p)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(patterns))
	at := 0
	for at <= len(text) {
		m := automaton.Find(text, at)
		if m == nil {
			break
		}
		// The automaton reports one match per start position, so mark
		// every registered pattern that begins at m.Start, not only the
		// one it reported (a pattern that is a prefix or extension of
		// another can start at the same offset).
		for _, p := range patterns {
			if bytes.HasPrefix(text[m.Start:], p) {
				present[string(p)] = true
			}
		}
		// Advance past the match's start, not its end: a later pattern
		// may start inside this match's span (e.g. one registered
		// pattern is a substring of another), and advancing to m.End
		// would skip over that occurrence entirely.
		at = int(m.Start) + 1
	}

	for _, p := range patterns {
		if present[string(p)] {
			result[string(p)] = idx.Locate(p)
		}
	}
	return result, nil
}
