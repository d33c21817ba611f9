// Package mismatch enumerates, for each of a set of anchor positions,
// how many variants of a fixed-length window — differing from the
// original by up to K single-character substitutions over {A,C,G,T}
// — occur in a (possibly different) suffix index, broken down by
// exact Hamming distance. Anchors are processed independently and
// concurrently.
package mismatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/secondarymetabolites/anchorsa/errs"
	"github.com/secondarymetabolites/anchorsa/suffixindex"
)

const (
	fieldWindow = "DStart/DEnd"
	fieldK      = "K"
)

// letters is the fixed substitution alphabet the enumerator is scoped
// to, per SPEC_FULL.md §1's Non-goals: alphabets other than this one
// are out of scope for the mismatch enumerator specifically (the
// suffix index and builder remain alphabet-agnostic).
var letters = [4]byte{'A', 'C', 'G', 'T'}

// Config bundles the mismatch enumerator's inputs, following this
// domain's Config-struct idiom (see SPEC_FULL.md §9) rather than a
// long positional parameter list.
type Config struct {
	// AnchorIndex is read only for the bytes of each anchor's window;
	// its suffix array is not consulted.
	AnchorIndex *suffixindex.Index
	// Anchors are the candidate window origins. Order is not
	// significant and is not preserved in the output.
	Anchors []int32
	// AnchorText is the required upstream-of-window prefix passed to
	// every CountWithPrefix call (see DStart below for its offset).
	AnchorText []byte
	// TargetIndex is searched for each generated variant.
	TargetIndex *suffixindex.Index
	// DStart and DEnd bound the window relative to each anchor:
	// [anchor+DStart, anchor+DEnd). Both must be <= 0 and
	// DStart < DEnd. The names are inherited from the distilled
	// specification's "downstream" parameters, but the enforced sign
	// convention places the window at or before the anchor.
	DStart, DEnd int
	// K is the maximum number of substitutions to enumerate; the
	// result's Counts has length K+1.
	K int
	// Threads is the worker count; 0 selects runtime.GOMAXPROCS(0).
	Threads int
	// CacheSize, if > 0, bounds a memoization cache shared by all
	// workers that maps window bytes already searched in TargetIndex
	// to their hit count (AnchorText and DStart are fixed for one
	// call, so the window alone identifies the search). It is a
	// pure optimization: disabling it (CacheSize == 0) must never
	// change any returned count.
	CacheSize int
}

// Result is one anchor's hit-count vector: Counts[d] is the number of
// (position, variant) occurrences in TargetIndex at exact Hamming
// distance d from the original window.
type Result struct {
	AnchorPos int32
	Counts    []int
}

func (c Config) validate() error {
	if c.DStart > 0 || c.DEnd > 0 {
		return &errs.InvalidArgumentError{Field: fieldWindow, Reason: fmt.Sprintf("DStart and DEnd must both be <= 0, got (%d, %d)", c.DStart, c.DEnd)}
	}
	if c.DStart >= c.DEnd {
		return &errs.InvalidArgumentError{Field: fieldWindow, Reason: fmt.Sprintf("DStart (%d) must be less than DEnd (%d)", c.DStart, c.DEnd)}
	}
	if c.K < 0 {
		return &errs.InvalidArgumentError{Field: fieldK, Reason: fmt.Sprintf("must be >= 0, got %d", c.K)}
	}
	return nil
}

// FindRepeatCounts runs the mismatch enumeration described in
// SPEC_FULL.md §4.4 over cfg.Anchors, in parallel, and returns one
// Result per anchor that was not skipped. ctx is checked once before
// any work starts (workers already in flight always run to
// completion, since the core has no mid-operation suspension points);
// a context already Done short-circuits before the scatter.
func FindRepeatCounts(ctx context.Context, cfg Config) ([]Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > len(cfg.Anchors) {
		threads = len(cfg.Anchors)
	}
	if threads == 0 {
		return nil, nil
	}

	var cache *variantCache
	if cfg.CacheSize > 0 {
		cache = newVariantCache(cfg.CacheSize)
	}

	var (
		mu       sync.Mutex
		results  = make([]Result, 0, len(cfg.Anchors))
		wg       sync.WaitGroup
		next     = make(chan int)
		firstErr error
		errOnce  sync.Once
	)

	worker := func() {
		defer wg.Done()
		for i := range next {
			res, skip, err := processAnchor(cfg, cache, cfg.Anchors[i])
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				continue
			}
			if skip {
				continue
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}
	}

	wg.Add(threads)
	for t := 0; t < threads; t++ {
		go worker()
	}
	for i := range cfg.Anchors {
		next <- i
	}
	close(next)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// processAnchor runs the per-anchor algorithm from SPEC_FULL.md §4.4
// step 1-5: skip anchors whose window would read before the text
// start, otherwise copy the window into worker-local scratch and
// recurse. A panic (e.g. an allocation failure) is recovered and
// reported as errs.ErrOutOfMemory so it poisons the whole operation
// rather than crashing the caller, per SPEC_FULL.md §7.
func processAnchor(cfg Config, cache *variantCache, anchorPos int32) (res Result, skip bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("anchor %d: %w: %v", anchorPos, errs.ErrOutOfMemory, r)
		}
	}()

	windowStart := int(anchorPos) + cfg.DStart
	if windowStart < 0 {
		return Result{}, true, nil
	}
	windowEnd := int(anchorPos) + cfg.DEnd
	window := make([]byte, windowEnd-windowStart)
	for i := range window {
		window[i] = cfg.AnchorIndex.Text(windowStart + i)
	}

	counts := make([]int, cfg.K+1)
	enumerate(cfg, cache, window, 0, 0, counts)

	return Result{AnchorPos: anchorPos, Counts: counts}, false, nil
}

// enumerate is the recursive substitution walk from SPEC_FULL.md
// §4.4: it counts the current window's occurrences (with the required
// anchor-text prefix) at the current depth, then — unless the maximum
// depth K has been reached — tries every non-original letter at every
// position from changeStart onward, recursing one depth deeper for
// each. The strictly increasing changeStart argument ensures every
// d-subset of substitution positions, and every assignment of letters
// to it, is visited exactly once.
func enumerate(cfg Config, cache *variantCache, window []byte, changeStart, depth int, counts []int) {
	counts[depth] += countWindow(cfg, cache, window)
	if depth == cfg.K {
		return
	}
	for p := changeStart; p < len(window); p++ {
		original := window[p]
		for _, c := range letters {
			if c == original {
				continue
			}
			window[p] = c
			enumerate(cfg, cache, window, p+1, depth+1, counts)
		}
		window[p] = original
	}
}

// countWindow looks up the current window in cfg.TargetIndex, with
// the anchor-text prefix constraint applied -dstart bytes upstream of
// the match, memoizing the result when a cache is configured.
func countWindow(cfg Config, cache *variantCache, window []byte) int {
	if cache == nil {
		return cfg.TargetIndex.CountWithPrefix(window, cfg.AnchorText, -cfg.DStart)
	}
	return cache.getOrCompute(window, func() int {
		return cfg.TargetIndex.CountWithPrefix(window, cfg.AnchorText, -cfg.DStart)
	})
}
