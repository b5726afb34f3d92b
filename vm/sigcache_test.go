// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// genSigCacheEntry derives a distinct (sigHash, sig, pubKey) triple from the
// given seed.
func genSigCacheEntry(seed byte) (chainhash.Hash, []byte, []byte) {
	sigHash := chainhash.HashH([]byte{seed})
	return sigHash, []byte{0x30, seed}, []byte{0x02, seed}
}

// TestSigCacheAddExists tests the ability to add, and later check the
// existence of a signature triplet in the signature cache.
func TestSigCacheAddExists(t *testing.T) {
	t.Parallel()

	sigCache := NewSigCache(200)
	sigHash, sig, pubKey := genSigCacheEntry(1)

	if sigCache.Exists(sigHash, sig, pubKey) {
		t.Fatalf("empty cache should not contain the entry")
	}
	sigCache.Add(sigHash, sig, pubKey)
	if !sigCache.Exists(sigHash, sig, pubKey) {
		t.Errorf("previously added item not found in signature cache")
	}

	// A different key for the same signature is a different entry.
	_, _, otherKey := genSigCacheEntry(2)
	if sigCache.Exists(sigHash, sig, otherKey) {
		t.Errorf("entry found under the wrong public key")
	}
}

// TestSigCacheAddEvictEntry tests the eviction of the least recently used
// entry once the cache is full.
func TestSigCacheAddEvictEntry(t *testing.T) {
	t.Parallel()

	const sigCacheSize = 4
	sigCache := NewSigCache(sigCacheSize)

	for i := byte(0); i < sigCacheSize; i++ {
		sigCache.Add(genSigCacheEntry(i))
	}

	// Touch the first entry so the second becomes the eviction candidate.
	if !sigCache.Exists(genSigCacheEntry(0)) {
		t.Fatalf("first entry missing from a full cache")
	}
	sigCache.Add(genSigCacheEntry(sigCacheSize))

	if sigCache.Exists(genSigCacheEntry(1)) {
		t.Errorf("least recently used entry was not evicted")
	}
	for _, seed := range []byte{0, 2, 3, sigCacheSize} {
		if !sigCache.Exists(genSigCacheEntry(seed)) {
			t.Errorf("entry %d unexpectedly evicted", seed)
		}
	}
}
