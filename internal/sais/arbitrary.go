package sais

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/bits"
	"slices"
)

// charBucket is the [start, end] slot range, in the suffix array,
// reserved for one symbol once suffixes are bucketed by leading byte.
type charBucket struct {
	start, end, size int32
}

// estimateAlphabetSize approximates the number of distinct symbols in
// text using probabilistic (linear) counting, so the bucket map below
// can be sized without a first full pass that builds it outright.
func estimateAlphabetSize(text, scratchBits []int32) uint64 {
	n := len(text)
	totalBits := uint64(n * 32)

	var buf [4]byte
	h := fnv.New64a()

	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[:], uint32(text[i]))
		h.Reset()
		h.Write(buf[:])
		bitIndex := h.Sum64() % totalBits
		slot := bitIndex / 32
		bit := uint32(bitIndex % 32)
		scratchBits[slot] |= int32(1 << bit)
	}

	zeroBits := 0
	for i := 0; i < n; i++ {
		val := uint32(scratchBits[i])
		zeroBits += bits.OnesCount32(^val)
		scratchBits[i] = 0
	}

	if zeroBits == 0 {
		return totalBits
	}
	estimate := -float64(totalBits) * math.Log(float64(zeroBits)/float64(totalBits))
	return uint64(estimate + 0.5)
}

// buildBucketMap scans text once to find every distinct symbol and
// assigns each a contiguous [start,end] slot range sized to its
// frequency, ordered by symbol value. sa is reused as scratch to
// collect the sorted alphabet before the map is built.
func buildBucketMap(sa, text []int32) (map[int32]charBucket, int32) {
	estimate := int(estimateAlphabetSize(text, sa))
	sized := estimate + int(float32(estimate)*0.1)
	buckets := make(map[int32]charBucket, sized)
	var alphaSize int32
	for i := 0; i < len(text); i++ {
		sym := text[i]
		b, exists := buckets[sym]
		if !exists {
			sa[alphaSize] = sym
			alphaSize++
		}
		b.size++
		buckets[sym] = b
	}
	alphabet := sa[:alphaSize]
	slices.Sort(alphabet)
	var offset int32
	for i := 0; i < len(alphabet); i++ {
		sym := alphabet[i]
		alphabet[i] = 0
		b := buckets[sym]
		b.start = offset
		offset += b.size
		b.end = offset - 1
		buckets[sym] = b
	}
	return buckets, alphaSize
}

// induceArbitraryAlphabet is the map-bucketed counterpart of
// induceSmallAlphabet, used when a reduced (named-LMS-substring)
// string's alphabet no longer fits the flat bucket array, which is
// sized to the outermost text's alphabet span (at most 256) — which
// happens for references with enough distinct LMS substrings that the
// recursion's alphabet outgrows that span.
func induceArbitraryAlphabet(text, sa, scratch []int32, numLMS int32) []int32 {
	buckets, alphaSize := buildBucketMap(sa, text)

	seedLMSBucketsArb(text, sa, buckets)

	var reducedText []int32
	if numLMS > 1 {
		induceLTypeForSummaryArb(text, sa, buckets)
		induceSTypeForSummaryArb(text, sa, buckets)

		reducedText = sa[len(sa)-int(numLMS):]
		maxName := nameLMSSubstrings(text, sa, reducedText, numLMS)

		reducedSA := sa[:numLMS]
		if maxName < numLMS {
			build(reducedText, reducedSA, scratch, alphaSize)
			remapLMS(text, sa, reducedSA, reducedText)
		} else {
			copy(reducedSA, reducedText)
			clear(sa[numLMS:])
		}
		placeLMSArb(text, sa, reducedSA, buckets)
	}
	induceLTypeArb(text, sa, buckets)
	induceSTypeArb(text, sa, buckets)
	return sa
}

func bucketHeadsArb(buckets map[int32]charBucket) {
	for sym, b := range buckets {
		b.start = b.end - b.size + 1
		buckets[sym] = b
	}
}

func bucketTailsArb(buckets map[int32]charBucket) {
	for sym, b := range buckets {
		b.end = b.start + b.size - 1
		buckets[sym] = b
	}
}

func placeLMSArb(text, sa, reducedSA []int32, buckets map[int32]charBucket) {
	var b charBucket
	var lmsPos, sym int32
	for i := len(reducedSA) - 1; i >= 0; i-- {
		lmsPos = reducedSA[i]
		reducedSA[i] = 0
		sym = text[lmsPos]
		b = buckets[sym]
		sa[b.end] = lmsPos
		b.end--
		buckets[sym] = b
	}
	bucketTailsArb(buckets)
}

func seedLMSBucketsArb(text, sa []int32, buckets map[int32]charBucket) {
	var (
		b                   charBucket
		left, right, i      int32
		lastLMSSlot         int32
		numLMS              int
		inSRun              bool
	)
	for i = int32(len(text) - 1); i >= 0; i-- {
		left, right = text[i], left
		if left < right {
			inSRun = true
		} else if left > right && inSRun {
			inSRun = false
			b = buckets[right]
			sa[b.end] = i + 1
			lastLMSSlot = b.end
			numLMS++
			b.end--
			buckets[right] = b
		}
	}
	if numLMS > 1 {
		sa[lastLMSSlot] = 0
	}
	bucketTailsArb(buckets)
}

func induceLTypeForSummaryArb(text, sa []int32, buckets map[int32]charBucket) {
	var (
		pos, j      = int32(len(text) - 1), int32(0)
		left, right = text[pos-1], text[pos]
		lastChar    = text[len(text)-1]
		b           = buckets[lastChar]
	)
	if left < right {
		pos = -pos
	}
	sa[b.start] = pos
	if b.size > 1 {
		b.start++
		buckets[lastChar] = b
	}

	for i := 0; i < len(sa); i++ {
		if sa[i] == 0 {
			continue
		}
		j = sa[i]
		if j < 0 {
			sa[i] = -j
			continue
		}
		sa[i] = 0
		pos = j - 1
		left, right = text[pos-1], text[pos]
		if left < right {
			pos = -pos
		}
		b = buckets[right]
		sa[b.start] = pos
		b.start++
		buckets[right] = b
	}
	bucketHeadsArb(buckets)
}

func induceSTypeForSummaryArb(text, sa []int32, buckets map[int32]charBucket) {
	var (
		b              charBucket
		j, left, right, pos int32
		top            = len(sa)
	)
	for i := len(sa) - 1; i >= 0; i-- {
		j = sa[i]
		if j == 0 {
			continue
		}
		sa[i] = 0
		if j < 0 {
			top--
			sa[top] = -j
			continue
		}
		pos = j - 1
		left, right = text[pos-1], text[pos]
		if left > right {
			pos = -pos
		}
		b = buckets[right]
		sa[b.end] = pos
		b.end--
		buckets[right] = b
	}
	bucketTailsArb(buckets)
}

func induceLTypeArb(text, sa []int32, buckets map[int32]charBucket) {
	var (
		pos, j      = int32(len(text) - 1), int32(0)
		left, right = text[pos-1], text[pos]
		lastChar    = text[len(text)-1]
		b           = buckets[lastChar]
	)
	if left < right {
		pos = -pos
	}
	sa[b.start] = pos
	b.start++
	buckets[lastChar] = b

	for i := 0; i < len(sa); i++ {
		j = sa[i]
		if j <= 0 {
			continue
		}
		pos = j - 1
		right = text[pos]
		if pos > 0 {
			if left = text[pos-1]; left < right {
				pos = -pos
			}
		}
		b = buckets[right]
		sa[b.start] = pos
		b.start++
		buckets[right] = b
	}
	bucketHeadsArb(buckets)
}

func induceSTypeArb(text, sa []int32, buckets map[int32]charBucket) {
	for i := len(sa) - 1; i >= 0; i-- {
		j := sa[i]
		if j >= 0 {
			continue
		}
		j = -j
		sa[i] = j
		pos := j - 1
		right := text[pos]
		if pos > 0 {
			if left := text[pos-1]; left <= right {
				pos = -pos
			}
		}
		b := buckets[right]
		sa[b.end] = pos
		b.end--
		buckets[right] = b
	}
	bucketTailsArb(buckets)
}
