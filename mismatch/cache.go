package mismatch

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// variantCache memoizes CountWithPrefix results by the searched window
// bytes. Within one anchor enumerate visits each variant exactly once
// (changeStart is monotonic), so hits come from distinct anchors whose
// windows, or windows' variants, coincide. golang-lru/v2 is not safe for
// concurrent use on its own, so access is serialized with a mutex;
// workers contend on the cache instead of on TargetIndex, which has no
// mutable state to protect.
type variantCache struct {
	mu sync.Mutex
	c  *lru.Cache[string, int]
}

func newVariantCache(size int) *variantCache {
	c, err := lru.New[string, int](size)
	if err != nil {
		// Only returned by golang-lru for a non-positive size, which
		// FindRepeatCounts already guards against before constructing
		// a variantCache.
		panic(err)
	}
	return &variantCache{c: c}
}

func (v *variantCache) getOrCompute(window []byte, compute func() int) int {
	key := string(window)

	v.mu.Lock()
	if n, ok := v.c.Get(key); ok {
		v.mu.Unlock()
		return n
	}
	v.mu.Unlock()

	n := compute()

	v.mu.Lock()
	v.c.Add(key, n)
	v.mu.Unlock()
	return n
}
