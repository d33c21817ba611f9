// Package suffixindex holds an immutable text and its suffix array and
// exposes exact-match search over it: locating every occurrence of a
// pattern, and counting occurrences that are additionally preceded (at
// a caller-given offset) by a required prefix. Both operations are
// pure reads, safe for any number of concurrent callers, since an
// *Index never changes after Build returns it.
package suffixindex

import (
	"fmt"

	"github.com/secondarymetabolites/anchorsa/errs"
	"github.com/secondarymetabolites/anchorsa/internal/sais"
)

// Index is the pair (text, suffix array) described by this module's
// data model: text is owned by the Index for its lifetime and must be
// treated as opaque by callers; sa is a permutation of [0, len(text))
// such that text[sa[i]:] sorts strictly before text[sa[i+1]:] under
// unsigned byte comparison.
type Index struct {
	text []byte
	sa   []int32
}

// Build constructs an Index over text using the SA-IS algorithm. The
// returned Index owns a private copy of text, so the caller may reuse
// or mutate its own slice afterward without affecting the Index.
func Build(text []byte) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx, err = nil, fmt.Errorf("%w: %v", errs.ErrOutOfMemory, r)
		}
	}()

	owned := make([]byte, len(text))
	copy(owned, text)
	sa := sais.Build(owned)
	return &Index{text: owned, sa: sa}, nil
}

// Len returns the length of the indexed text.
func (idx *Index) Len() int {
	return len(idx.text)
}

// Text returns the byte at position i of the indexed text. Indexing is
// 0-based, matching the data model in SPEC_FULL.md §3.
func (idx *Index) Text(i int) byte {
	return idx.text[i]
}

// Slice returns the bytes of the indexed text in [start, end). Callers
// must not retain or mutate the returned slice beyond the Index's
// lifetime guarantees, since it aliases the Index's own backing array.
func (idx *Index) Slice(start, end int) []byte {
	return idx.text[start:end]
}

// compareTruncated compares suffix (starting at sa[i]) against pattern,
// truncated to len(pattern) bytes, under unsigned byte ordering. A
// suffix shorter than pattern sorts before it (the "no sentinel"
// convention in SPEC_FULL.md §4.1: a position past the end of text
// sorts before every real byte).
func (idx *Index) compareTruncated(saIdx int32, pattern []byte) int {
	suffix := idx.text[saIdx:]
	n := len(pattern)
	if len(suffix) < n {
		n = len(suffix)
	}
	for i := 0; i < n; i++ {
		if suffix[i] != pattern[i] {
			if suffix[i] < pattern[i] {
				return -1
			}
			return 1
		}
	}
	if len(suffix) < len(pattern) {
		return -1
	}
	return 0
}

// boundsFor returns [lo, hi) — the half-open range of sa indices whose
// suffixes start with pattern — found via two binary searches for the
// lower and upper bound, per SPEC_FULL.md §4.2. The inclusive upper
// bound of N (not N-1) resolves the off-by-one open question from
// SPEC_FULL.md §9: every sa index, including the last, is a candidate.
func (idx *Index) boundsFor(pattern []byte) (lo, hi int) {
	n := len(idx.sa)
	lo = sortSearch(n, func(i int) bool {
		return idx.compareTruncated(idx.sa[i], pattern) >= 0
	})
	hi = lo + sortSearch(n-lo, func(i int) bool {
		return idx.compareTruncated(idx.sa[lo+i], pattern) > 0
	})
	return lo, hi
}

// sortSearch mirrors sort.Search without importing it twice across
// this file's two binary searches; kept local so both boundsFor
// searches share one tiny, auditable implementation.
func sortSearch(n int, f func(int) bool) int {
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if !f(mid) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Locate returns every offset o in [0, Len()) such that
// text[o:o+len(pattern)] equals pattern. The empty pattern returns nil
// (not every position) per SPEC_FULL.md §4.2. The order of the
// returned slice is unspecified; callers must compare as sets.
func (idx *Index) Locate(pattern []byte) []int32 {
	if len(pattern) == 0 {
		return nil
	}
	lo, hi := idx.boundsFor(pattern)
	if lo >= hi {
		return nil
	}
	out := make([]int32, hi-lo)
	copy(out, idx.sa[lo:hi])
	return out
}

// CountWithPrefix returns the number of offsets o such that
// text[o:o+len(pattern)] = pattern AND
// text[o-prefixOffset:o-prefixOffset+len(prefix)] = prefix.
// prefixOffset is a non-negative distance, backward from the match
// start, to where prefix must begin; when prefix is non-empty,
// candidates with o-prefixOffset < 0 are skipped silently, never
// counted and never an error, per SPEC_FULL.md §4.2. An empty prefix
// imposes no constraint, so every occurrence of pattern is counted.
func (idx *Index) CountWithPrefix(pattern, prefix []byte, prefixOffset int) int {
	if len(pattern) == 0 {
		return 0
	}
	lo, hi := idx.boundsFor(pattern)
	count := 0
	for i := lo; i < hi; i++ {
		o := int(idx.sa[i])
		if !idx.hasPrefixAt(o, prefix, prefixOffset) {
			continue
		}
		count++
	}
	return count
}

// hasPrefixAt reports whether prefix occurs in the indexed text
// starting at o-prefixOffset. An empty prefix is trivially satisfied
// by every candidate, even one with o-prefixOffset < 0, matching the source's vacuous-check
// semantics when the anchor text is empty (SPEC_FULL.md §8, scenario
// 5).
func (idx *Index) hasPrefixAt(o int, prefix []byte, prefixOffset int) bool {
	if len(prefix) == 0 {
		return true
	}
	start := o - prefixOffset
	if start < 0 {
		return false
	}
	end := start + len(prefix)
	if end > len(idx.text) {
		return false
	}
	for i, b := range prefix {
		if idx.text[start+i] != b {
			return false
		}
	}
	return true
}
