package gltfwriter

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

type dedupEntry struct {
	kind string
	data []byte
	idx  uint32
}

// Deduplicator memoizes accessor indices by a (kind, content) hash so
// identical geometry buffers recurring across fragments (a reused box
// primitive, a shared UV set) are written once and referenced many
// times. kind namespaces the hash so a position buffer and an index
// buffer that happen to share bytes never alias. A hash match is only
// the first step: Lookup deep-compares the candidate's kind and bytes
// against the stored entry before trusting it, so a bare 64-bit hash
// collision can never silently alias unrelated content.
type Deduplicator struct {
	enabled bool
	buckets map[uint64][]dedupEntry
}

// NewDeduplicator returns a Deduplicator. When enabled is false,
// Lookup always misses and Remember is a no-op.
func NewDeduplicator(enabled bool) *Deduplicator {
	return &Deduplicator{enabled: enabled, buckets: make(map[uint64][]dedupEntry)}
}

func (d *Deduplicator) hash(kind string, data []byte) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(kind)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(data)
	return h.Sum64()
}

// Lookup returns the accessor index previously Remember'd for this
// (kind, data) pair, if any. A hash match whose stored kind or bytes
// don't actually agree with the candidate is treated as a miss.
func (d *Deduplicator) Lookup(kind string, data []byte) (uint32, bool) {
	if !d.enabled {
		return 0, false
	}
	for _, e := range d.buckets[d.hash(kind, data)] {
		if e.kind == kind && bytes.Equal(e.data, data) {
			return e.idx, true
		}
	}
	return 0, false
}

// Remember records accessorIndex as the owner of (kind, data).
func (d *Deduplicator) Remember(kind string, data []byte, accessorIndex uint32) {
	if !d.enabled {
		return
	}
	h := d.hash(kind, data)
	d.buckets[h] = append(d.buckets[h], dedupEntry{kind: kind, data: data, idx: accessorIndex})
}
