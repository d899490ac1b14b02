package gltfwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicatorHitsOnRepeatedContent(t *testing.T) {
	d := NewDeduplicator(true)
	data := []byte{1, 2, 3, 4}

	_, ok := d.Lookup("pos", data)
	assert.False(t, ok)

	d.Remember("pos", data, 7)

	idx, ok := d.Lookup("pos", data)
	assert.True(t, ok)
	assert.EqualValues(t, 7, idx)

	// Same bytes under a different kind never alias.
	_, ok = d.Lookup("idx", data)
	assert.False(t, ok)
}

func TestDeduplicatorDisabledNeverHits(t *testing.T) {
	d := NewDeduplicator(false)
	data := []byte{1, 2, 3}
	d.Remember("pos", data, 3)

	_, ok := d.Lookup("pos", data)
	assert.False(t, ok)
}

// TestDeduplicatorVerifiesContentOnHashMatch forces a bare hash
// collision (an unrelated entry planted directly into the candidate's
// own bucket) and asserts Lookup rejects it instead of trusting the
// hash alone, then confirms the real entry at that same bucket still
// hits once Remember'd.
func TestDeduplicatorVerifiesContentOnHashMatch(t *testing.T) {
	d := NewDeduplicator(true)
	candidate := []byte{1, 2, 3}
	h := d.hash("pos", candidate)

	d.buckets[h] = []dedupEntry{{kind: "pos", data: []byte{9, 9, 9}, idx: 42}}
	_, ok := d.Lookup("pos", candidate)
	assert.False(t, ok, "a hash-bucket entry with different bytes must never be trusted")

	d.Remember("pos", candidate, 7)
	idx, ok := d.Lookup("pos", candidate)
	assert.True(t, ok)
	assert.EqualValues(t, 7, idx)
}
