// Package sais builds suffix arrays over byte strings using the SA-IS
// (induced sorting) algorithm. The construction runs in linear time and
// requires no sentinel byte: a position past the end of the text is
// treated as sorting before every real byte, so a suffix that is a
// proper prefix of another suffix always sorts first.
package sais

// Build constructs the suffix array for text: a permutation of
// [0, len(text)) such that text[sa[i]:] < text[sa[i+1]:] under unsigned
// byte comparison, for every valid i.
func Build(text []byte) []int32 {
	switch len(text) {
	case 0:
		return []int32{}
	case 1:
		return []int32{0}
	}
	widened := make([]int32, len(text))
	for i, b := range text {
		widened[i] = int32(b)
	}
	return build(widened, nil, nil, 0)
}

// build is the recursive core of SA-IS. sa and scratch may be nil, in
// which case they are allocated for this call; srcAlphaSize is the
// alphabet size of the outermost call and is used to decide whether a
// recursive call on a reduced string still fits the small-alphabet,
// bucket-array path or must fall back to the map-keyed path in
// arbitrary.go.
func build(text, sa, scratch []int32, srcAlphaSize int32) []int32 {
	var (
		minChar, maxChar = text[0], text[0]
		left, right      int32
		numLMS           int32
		inSRun           bool
	)
	// A single backward scan both finds the character range and counts
	// LMS positions (S-type positions whose predecessor is L-type).
	for i := len(text) - 1; i >= 0; i-- {
		left, right = text[i], left
		if left < minChar {
			minChar = left
		}
		if left > maxChar {
			maxChar = left
		}
		if left < right {
			inSRun = true
		} else if left > right && inSRun {
			inSRun = false
			numLMS++
		}
	}
	currAlphaSize := maxChar - minChar + 1
	if sa == nil {
		srcAlphaSize = currAlphaSize
		sa = make([]int32, len(text))
	}
	if currAlphaSize > 256 || currAlphaSize > srcAlphaSize {
		return induceArbitraryAlphabet(text, sa, scratch, numLMS)
	}
	return induceSmallAlphabet(text, sa, scratch, minChar, numLMS, srcAlphaSize, currAlphaSize)
}

// induceSmallAlphabet runs the three induced-sorting passes (LMS seed,
// L-type, S-type) plus the LMS-substring naming and conditional
// recursion, for alphabets of at most 256 symbols addressable by a
// flat bucket array.
func induceSmallAlphabet(text, sa, scratch []int32, minChar, numLMS, srcAlphaSize, currAlphaSize int32) []int32 {
	if scratch == nil || len(scratch) < int(srcAlphaSize)*2 {
		scratch = make([]int32, srcAlphaSize*2)
	}
	freq := scratch[:currAlphaSize]
	buckets := scratch[srcAlphaSize : srcAlphaSize+currAlphaSize]
	countFrequencies(text, freq, minChar)

	seedLMSBuckets(text, sa, freq, buckets, minChar)

	var reducedText []int32
	if numLMS > 1 {
		induceLTypeForSummary(text, sa, freq, buckets, minChar)
		induceSTypeForSummary(text, sa, freq, buckets, minChar)

		reducedText = sa[len(sa)-int(numLMS):]
		maxName := nameLMSSubstrings(text, sa, reducedText, numLMS)

		reducedSA := sa[:numLMS]
		if maxName < numLMS {
			build(reducedText, reducedSA, scratch, srcAlphaSize)
			remapLMS(text, sa, reducedSA, reducedText)
		} else {
			copy(reducedSA, reducedText)
			clear(sa[numLMS:])
		}
		placeLMS(text, sa, reducedSA, freq, buckets, minChar)
	}
	induceLType(text, sa, freq, buckets, minChar)
	induceSType(text, sa, freq, buckets, minChar)
	return sa
}

// remapLMS maps the suffix array of the reduced (named-LMS-substring)
// string back onto the original LMS positions in text, using sa as
// scratch space to rediscover those positions in text order.
func remapLMS(text, sa, reducedSA, lms []int32) {
	var (
		j           = int32(len(lms))
		left, right int32
		inSRun      bool
	)
	for i := len(text) - 1; i >= 0; i-- {
		left, right = text[i], left
		if left < right {
			inSRun = true
		} else if left > right && inSRun {
			inSRun = false
			j--
			lms[j] = int32(i) + 1
		}
	}
	for i := 0; i < len(lms); i++ {
		j = reducedSA[i]
		sa[i] = lms[j]
		lms[j] = 0
	}
}

// placeLMS drops the now fully-ordered LMS suffixes into the ends of
// their character buckets, ready for the final L/S induction passes.
func placeLMS(text, sa, reducedSA, freq, buckets []int32, minChar int32) {
	countFrequencies(text, freq, minChar)
	bucketTails(freq, buckets)
	var lmsPos, bucketIdx, charIdx int32
	for i := len(reducedSA) - 1; i >= 0; i-- {
		lmsPos = reducedSA[i]
		reducedSA[i] = 0
		charIdx = text[lmsPos] - minChar
		bucketIdx = buckets[charIdx]
		sa[bucketIdx] = lmsPos
		buckets[charIdx] = bucketIdx - 1
	}
}

// countFrequencies tallies how many times each symbol (offset by
// minChar) appears in text.
func countFrequencies(text, freq []int32, minChar int32) {
	clear(freq)
	for _, v := range text {
		freq[v-minChar]++
	}
}

// bucketHeads computes, for each symbol, the first suffix-array slot
// belonging to that symbol's bucket (used to induce L-type suffixes
// left to right).
func bucketHeads(freq, buckets []int32) {
	var offset int32
	for i, n := range freq {
		if n > 0 {
			buckets[i] = offset
			offset += n
		}
	}
}

// bucketTails computes, for each symbol, the last suffix-array slot
// belonging to that symbol's bucket (used to induce S-type and LMS
// suffixes right to left).
func bucketTails(freq, buckets []int32) {
	var offset int32
	for i, n := range freq {
		if n > 0 {
			offset += n
			buckets[i] = offset - 1
		}
	}
}

// seedLMSBuckets places each LMS position at the tail of its
// character's bucket, scanning text backwards so later-occurring LMS
// suffixes of the same character are overwritten by earlier ones
// (the ordering is refined by the induction passes that follow).
func seedLMSBuckets(text, sa, freq, buckets []int32, minChar int32) {
	bucketTails(freq, buckets)
	var (
		left, right, i, charIdx, bucketIdx, lastLMSSlot int32
		numLMS                                          int
		inSRun                                           bool
	)
	for i = int32(len(text) - 1); i >= 0; i-- {
		left, right = text[i], left
		if left < right {
			inSRun = true
		} else if left > right && inSRun {
			inSRun = false
			charIdx = right - minChar
			bucketIdx = buckets[charIdx]
			buckets[charIdx] = bucketIdx - 1
			sa[bucketIdx] = i + 1
			lastLMSSlot = bucketIdx
			numLMS++
		}
	}
	if numLMS > 1 {
		sa[lastLMSSlot] = 0
	}
}

// induceLTypeForSummary and induceSTypeForSummary perform the two
// induction passes needed only to discover the LMS substrings'
// boundaries for naming; they store intermediate results as signed
// sa entries (negative = already finalized) exactly as the final
// induceLType/induceSType passes do.
func induceLTypeForSummary(text, sa, freq, buckets []int32, minChar int32) {
	bucketHeads(freq, buckets)
	var (
		pos, j       = int32(len(text) - 1), int32(0)
		left, right  = text[pos-1], text[pos]
		lastChar     = text[len(text)-1]
		bucketIdx    = buckets[lastChar-minChar]
	)
	if left < right {
		pos = -pos
	}
	buckets[lastChar-minChar] = bucketIdx + 1
	sa[bucketIdx] = pos

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
		bucketIdx = buckets[right-minChar]
		buckets[right-minChar] = bucketIdx + 1
		sa[bucketIdx] = pos
	}
}

func induceSTypeForSummary(text, sa, freq, buckets []int32, minChar int32) {
	bucketTails(freq, buckets)
	var (
		j, bucketIdx, left, right, pos int32
		top                            = len(sa)
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
		bucketIdx = buckets[right-minChar]
		buckets[right-minChar] = bucketIdx - 1
		sa[bucketIdx] = pos
	}
}

// induceLType and induceSType are the final induction passes that
// settle every remaining suffix's position given the already-ordered
// LMS suffixes.
func induceLType(text, sa, freq, buckets []int32, minChar int32) {
	bucketHeads(freq, buckets)
	var (
		pos, j      = int32(len(text) - 1), int32(0)
		left, right = text[pos-1], text[pos]
		lastChar    = text[len(text)-1]
		bucketIdx   = buckets[lastChar-minChar]
	)
	if left < right {
		pos = -pos
	}
	buckets[lastChar-minChar] = bucketIdx + 1
	sa[bucketIdx] = pos

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
		bucketIdx = buckets[right-minChar]
		buckets[right-minChar] = bucketIdx + 1
		sa[bucketIdx] = pos
	}
}

func induceSType(text, sa, freq, buckets []int32, minChar int32) {
	bucketTails(freq, buckets)
	var j, left, right, pos, bucketIdx int32
	for i := len(sa) - 1; i >= 0; i-- {
		j = sa[i]
		if j >= 0 {
			continue
		}
		j = -j
		sa[i] = j
		pos = j - 1
		right = text[pos]
		if pos > 0 {
			if left = text[pos-1]; left <= right {
				pos = -pos
			}
		}
		bucketIdx = buckets[right-minChar]
		buckets[right-minChar] = bucketIdx - 1
		sa[bucketIdx] = pos
	}
}

// lmsSubstringLengths records, in sa, the length of the LMS substring
// starting at each LMS position (indexed by position/2, which is
// injective over LMS positions since consecutive LMS positions are at
// least two apart).
func lmsSubstringLengths(text, sa []int32) {
	var (
		left, right int32
		prev        = int32(len(text)) - 1
		inSRun      bool
	)
	for i := len(text) - 1; i >= 0; i-- {
		left, right = text[i], left
		if left < right {
			inSRun = true
		} else if left > right && inSRun {
			inSRun = false
			sa[(i+1)/2] = prev - int32(i)
			prev = int32(i)
		}
	}
}

// lmsSubstringsEqual compares two LMS substrings of known equal or
// differing length.
func lmsSubstringsEqual(text []int32, left, right, leftLen, rightLen int32) bool {
	if leftLen != rightLen {
		return false
	}
	for leftLen > 0 {
		if text[left] != text[right] {
			return false
		}
		left++
		right++
		leftLen--
	}
	return true
}

// nameLMSSubstrings assigns each LMS substring an integer "name" —
// substrings compare equal iff they receive the same name — and packs
// the names of the LMS positions, in text order, into reducedText.
// Returns the number of distinct names assigned.
func nameLMSSubstrings(text, sa, reducedText []int32, numLMS int32) int32 {
	lmsSubstringLengths(text, sa)
	var (
		name, maxName = int32(1), int32(1)
		positions     = reducedText
		prevLen       = sa[positions[0]/2]
	)
	sa[positions[0]/2] = name
	for i := 1; i < len(positions); i++ {
		prev, curr := positions[i-1], positions[i]
		if !lmsSubstringsEqual(text, prev, curr, prevLen, sa[curr/2]) {
			name++
			maxName++
		}
		prevLen = sa[curr/2]
		sa[curr/2] = name
	}
	if maxName >= numLMS {
		return maxName
	}
	var j int
	for i := 0; i < len(sa)/2; i++ {
		curr := sa[i]
		if curr <= 0 {
			continue
		}
		sa[i], reducedText[j] = 0, curr
		j++
	}
	return maxName
}
