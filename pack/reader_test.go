package pack

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svf2gltf/svf2gltf/internal/bstream"
)

// buildPackFile assembles a minimal valid packfile buffer with a
// single entry of type "TestType"/"TestClass" v1, whose entry body is
// just a vector3 (1,2,3).
func buildPackFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	writeVarintString := func(s string) {
		writeVarint(&buf, uint64(len(s)))
		buf.WriteString(s)
	}

	// Header.
	writeVarintString("FragmentList")
	binary.Write(&buf, binary.LittleEndian, int32(1))

	// Entry body: u32 type index (0) + f64 vector3.
	entryOffset := uint32(buf.Len())
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, float64(1))
	binary.Write(&buf, binary.LittleEndian, float64(2))
	binary.Write(&buf, binary.LittleEndian, float64(3))

	// Entries table.
	entriesOffset := uint32(buf.Len())
	writeVarint(&buf, 1)
	binary.Write(&buf, binary.LittleEndian, entryOffset)

	// Types table.
	typesOffset := uint32(buf.Len())
	writeVarint(&buf, 1)
	writeVarintString("TestClass")
	writeVarintString("TestType")
	writeVarint(&buf, 1)

	// Footer.
	binary.Write(&buf, binary.LittleEndian, entriesOffset)
	binary.Write(&buf, binary.LittleEndian, typesOffset)

	return buf.Bytes()
}

func writeVarint(buf *bytes.Buffer, n uint64) {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if n == 0 {
			return
		}
	}
}

func TestReaderEntriesAndTypedReads(t *testing.T) {
	raw := buildPackFile(t)

	r, err := New(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, r.EntryCount())
	assert.Equal(t, "FragmentList", r.Header().Type)

	typ, err := r.SeekEntry(0)
	require.NoError(t, err)
	assert.Equal(t, "TestClass", typ.Class)
	assert.Equal(t, "TestType", typ.Type)

	v, err := r.Vector3()
	require.NoError(t, err)
	assert.Equal(t, float32(1), v.X)
	assert.Equal(t, float32(2), v.Y)
	assert.Equal(t, float32(3), v.Z)
}

func TestReaderGzipEquivalence(t *testing.T) {
	// Same (entries, types, header) whether the caller hands us the
	// gzipped form or the already-inflated form.
	raw := buildPackFile(t)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	plain, err := New(raw)
	require.NoError(t, err)
	wrapped, err := New(gz.Bytes())
	require.NoError(t, err)

	assert.Equal(t, plain.Header(), wrapped.Header())
	assert.Equal(t, plain.entries, wrapped.entries)
	assert.Equal(t, plain.types, wrapped.types)
}

func TestReaderSeekEntryOutOfRange(t *testing.T) {
	raw := buildPackFile(t)
	r, err := New(raw)
	require.NoError(t, err)

	_, err = r.SeekEntry(5)
	assert.Error(t, err)
}

func TestReaderTransformKinds(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, float64(5))
	binary.Write(&buf, binary.LittleEndian, float64(0))
	binary.Write(&buf, binary.LittleEndian, float64(0))

	r := &Reader{}
	r.stream = bstream.New(buf.Bytes())
	tr, err := r.Transform()
	require.NoError(t, err)
	assert.Equal(t, TransformTranslation, tr.Kind)
	assert.Equal(t, float32(5), tr.Translation.X)
}

func TestReaderUnknownTransformKind(t *testing.T) {
	r := &Reader{}
	r.stream = bstream.New([]byte{9})
	_, err := r.Transform()
	assert.Error(t, err)
}
