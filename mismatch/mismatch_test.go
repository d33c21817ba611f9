package mismatch

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondarymetabolites/anchorsa/suffixindex"
)

// bruteForceCounts is the linear-scan oracle from SPEC_FULL.md §8: for
// one anchor, it walks T' directly for every variant at every depth
// rather than consulting a suffix index at all. anchorText is the text
// the window is read from; prefix is the required prefix (Config's
// AnchorText).
func bruteForceCounts(anchorText, prefix []byte, anchorPos int32, dstart, dend, k int, target []byte) (counts []int, skip bool) {
	windowStart := int(anchorPos) + dstart
	if windowStart < 0 {
		return nil, true
	}
	windowEnd := int(anchorPos) + dend
	window := append([]byte(nil), anchorText[windowStart:windowEnd]...)
	prefixOffset := -dstart

	counts = make([]int, k+1)
	var rec func(w []byte, changeStart, depth int)
	rec = func(w []byte, changeStart, depth int) {
		counts[depth] += bruteForceScan(target, w, prefix, prefixOffset)
		if depth == k {
			return
		}
		for p := changeStart; p < len(w); p++ {
			orig := w[p]
			for _, c := range []byte("ACGT") {
				if c == orig {
					continue
				}
				w[p] = c
				rec(w, p+1, depth+1)
			}
			w[p] = orig
		}
	}
	rec(append([]byte(nil), window...), 0, 0)
	return counts, false
}

func bruteForceScan(target, pattern, prefix []byte, prefixOffset int) int {
	count := 0
	for o := 0; o+len(pattern) <= len(target); o++ {
		if string(target[o:o+len(pattern)]) != string(pattern) {
			continue
		}
		if len(prefix) == 0 {
			count++
			continue
		}
		start := o - prefixOffset
		if start < 0 || start+len(prefix) > len(target) {
			continue
		}
		if string(target[start:start+len(prefix)]) == string(prefix) {
			count++
		}
	}
	return count
}

func resultFor(results []Result, anchorPos int32) (Result, bool) {
	for _, r := range results {
		if r.AnchorPos == anchorPos {
			return r, true
		}
	}
	return Result{}, false
}

// TestSkipRule exercises SPEC_FULL.md §8 scenario 4: an anchor whose
// window would start before the text's origin is silently omitted.
func TestSkipRule(t *testing.T) {
	text := []byte("AAACAAA")
	anchorIdx, err := suffixindex.Build(text)
	require.NoError(t, err)
	targetIdx, err := suffixindex.Build(text)
	require.NoError(t, err)

	results, err := FindRepeatCounts(context.Background(), Config{
		AnchorIndex: anchorIdx,
		Anchors:     []int32{0},
		AnchorText:  nil,
		TargetIndex: targetIdx,
		DStart:      -3,
		DEnd:        0,
		K:           1,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestScenarioWithOracle exercises SPEC_FULL.md §8 scenario 5's shape:
// an anchor window "AAA" searched against a target with overlapping
// runs, counts[0] and counts[1] checked against the brute-force oracle
// rather than a hard-coded number, per the spec's own instruction.
func TestScenarioWithOracle(t *testing.T) {
	anchorText := []byte("XAAAC")
	target := []byte("AAACAAAC")

	anchorIdx, err := suffixindex.Build(anchorText)
	require.NoError(t, err)
	targetIdx, err := suffixindex.Build(target)
	require.NoError(t, err)

	results, err := FindRepeatCounts(context.Background(), Config{
		AnchorIndex: anchorIdx,
		Anchors:     []int32{4},
		AnchorText:  nil,
		TargetIndex: targetIdx,
		DStart:      -3,
		DEnd:        0,
		K:           1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	want, skip := bruteForceCounts(anchorText, nil, 4, -3, 0, 1, target)
	require.False(t, skip)
	assert.Equal(t, want, results[0].Counts)
}

// TestZeroKIsExactCount exercises SPEC_FULL.md §8 scenario 6: with
// K=0, counts has length 1 and holds exactly the exact-match count.
func TestZeroKIsExactCount(t *testing.T) {
	anchorText := []byte("GGACGTGG")
	target := []byte("ACGTACGTACGT")

	anchorIdx, err := suffixindex.Build(anchorText)
	require.NoError(t, err)
	targetIdx, err := suffixindex.Build(target)
	require.NoError(t, err)

	results, err := FindRepeatCounts(context.Background(), Config{
		AnchorIndex: anchorIdx,
		Anchors:     []int32{6},
		AnchorText:  nil,
		TargetIndex: targetIdx,
		DStart:      -4,
		DEnd:        0,
		K:           0,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Counts, 1)

	want := targetIdx.CountWithPrefix([]byte("ACGT"), nil, 4)
	assert.Equal(t, want, results[0].Counts[0])
}

// TestRandomizedAgainstBruteForce follows SPEC_FULL.md §8's randomized
// oracle directive: small N, small K, compared against a linear scan.
func TestRandomizedAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	alphabet := []byte("ACGT")

	for trial := 0; trial < 30; trial++ {
		n := rng.Intn(60) + 10
		anchorText := make([]byte, n)
		for i := range anchorText {
			anchorText[i] = alphabet[rng.Intn(len(alphabet))]
		}
		tn := rng.Intn(200) + 10
		target := make([]byte, tn)
		for i := range target {
			target[i] = alphabet[rng.Intn(len(alphabet))]
		}

		anchorIdx, err := suffixindex.Build(anchorText)
		require.NoError(t, err)
		targetIdx, err := suffixindex.Build(target)
		require.NoError(t, err)

		dend := -rng.Intn(3)
		dstart := dend - (rng.Intn(4) + 1)
		k := rng.Intn(4)

		numAnchors := rng.Intn(6) + 1
		anchors := make([]int32, numAnchors)
		for i := range anchors {
			anchors[i] = int32(rng.Intn(n))
		}

		results, err := FindRepeatCounts(context.Background(), Config{
			AnchorIndex: anchorIdx,
			Anchors:     anchors,
			AnchorText:  anchorText,
			TargetIndex: targetIdx,
			DStart:      dstart,
			DEnd:        dend,
			K:           k,
		})
		require.NoError(t, err)

		for _, a := range anchors {
			want, skip := bruteForceCounts(anchorText, anchorText, a, dstart, dend, k, target)
			got, found := resultFor(results, a)
			if skip {
				assert.False(t, found, "anchor %d should have been skipped", a)
				continue
			}
			require.True(t, found, "anchor %d missing from results", a)
			assert.Equal(t, want, got.Counts, "anchor %d", a)
		}
	}
}

// TestCacheIsTransparent checks that enabling the variant memoization
// cache never changes the returned counts.
func TestCacheIsTransparent(t *testing.T) {
	anchorText := []byte("ACGTACGTACGTACGT")
	target := []byte("ACGTACGTACGTACGTACGTACGT")

	anchorIdx, err := suffixindex.Build(anchorText)
	require.NoError(t, err)
	targetIdx, err := suffixindex.Build(target)
	require.NoError(t, err)

	base := Config{
		AnchorIndex: anchorIdx,
		Anchors:     []int32{4, 8, 12},
		AnchorText:  anchorText,
		TargetIndex: targetIdx,
		DStart:      -4,
		DEnd:        0,
		K:           2,
	}

	withoutCache := base
	withoutCache.CacheSize = 0
	withCache := base
	withCache.CacheSize = 64

	r1, err := FindRepeatCounts(context.Background(), withoutCache)
	require.NoError(t, err)
	r2, err := FindRepeatCounts(context.Background(), withCache)
	require.NoError(t, err)

	require.Equal(t, len(r1), len(r2))
	for _, a := range base.Anchors {
		want, _ := resultFor(r1, a)
		got, _ := resultFor(r2, a)
		assert.Equal(t, want.Counts, got.Counts)
	}
}

// TestDeterministicAcrossThreadCounts exercises the "determinism
// modulo order" property: the multiset of output pairs must not
// depend on how many workers processed them.
func TestDeterministicAcrossThreadCounts(t *testing.T) {
	anchorText := []byte("ACGTGGCATGCATGCACGTAGCTAGCTGACGT")
	target := []byte("ACGTGGCATGCATGCACGTAGCTAGCTGACGTACGTGGCATG")

	anchorIdx, err := suffixindex.Build(anchorText)
	require.NoError(t, err)
	targetIdx, err := suffixindex.Build(target)
	require.NoError(t, err)

	anchors := make([]int32, 20)
	for i := range anchors {
		anchors[i] = int32(i % len(anchorText))
	}

	base := Config{
		AnchorIndex: anchorIdx,
		Anchors:     anchors,
		AnchorText:  anchorText,
		TargetIndex: targetIdx,
		DStart:      -3,
		DEnd:        0,
		K:           1,
	}

	var reference []Result
	for _, threads := range []int{1, 2, 4, 8} {
		cfg := base
		cfg.Threads = threads
		results, err := FindRepeatCounts(context.Background(), cfg)
		require.NoError(t, err)
		if reference == nil {
			reference = results
			continue
		}
		require.Equal(t, len(reference), len(results), "threads=%d", threads)
		for _, a := range anchors {
			want, wantFound := resultFor(reference, a)
			got, found := resultFor(results, a)
			require.Equal(t, wantFound, found, "anchor %d threads=%d", a, threads)
			assert.Equal(t, want.Counts, got.Counts, "anchor %d threads=%d", a, threads)
		}
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	idx, err := suffixindex.Build([]byte("ACGT"))
	require.NoError(t, err)

	_, err = FindRepeatCounts(context.Background(), Config{
		AnchorIndex: idx, TargetIndex: idx, Anchors: []int32{0},
		DStart: 0, DEnd: 0, K: 1,
	})
	assert.Error(t, err)

	_, err = FindRepeatCounts(context.Background(), Config{
		AnchorIndex: idx, TargetIndex: idx, Anchors: []int32{0},
		DStart: 1, DEnd: 2, K: 1,
	})
	assert.Error(t, err)

	_, err = FindRepeatCounts(context.Background(), Config{
		AnchorIndex: idx, TargetIndex: idx, Anchors: []int32{0},
		DStart: -2, DEnd: 0, K: -1,
	})
	assert.Error(t, err)
}

func TestEmptyAnchorSet(t *testing.T) {
	idx, err := suffixindex.Build([]byte("ACGT"))
	require.NoError(t, err)
	results, err := FindRepeatCounts(context.Background(), Config{
		AnchorIndex: idx, TargetIndex: idx, Anchors: nil,
		DStart: -2, DEnd: 0, K: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
