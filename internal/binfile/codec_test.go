package binfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mdarchive/internal/tensor"
)

// fileBuilder assembles raw archive bytes field by field.
type fileBuilder struct {
	buf bytes.Buffer
}

func (b *fileBuilder) int32s(vs ...int32) *fileBuilder {
	for _, v := range vs {
		_ = binary.Write(&b.buf, binary.NativeEndian, v)
	}
	return b
}

func (b *fileBuilder) key(k string) *fileBuilder {
	b.int32s(int32(len(k)))
	b.buf.WriteString(k)
	return b
}

func (b *fileBuilder) floats(vs ...float32) *fileBuilder {
	_ = binary.Write(&b.buf, binary.NativeEndian, vs)
	return b
}

func (b *fileBuilder) bytes() []byte {
	return b.buf.Bytes()
}

func sampleArchive(t *testing.T) *Archive {
	t.Helper()
	rng := rand.New(rand.NewSource(42))

	a := NewArchive()
	foo, err := NewMultidimArray(13, 32, 32, 2)
	require.NoError(t, err)
	for i := range foo.Data {
		foo.Data[i] = rng.Float32()*2 - 1
	}
	a.Set("foo", foo)

	bar, err := NewMultidimArray(12, 19)
	require.NoError(t, err)
	for i := range bar.Data {
		bar.Data[i] = float32(i)
	}
	a.Set("bar", bar)

	a.Set("scalar", mustArray(t, nil, float32(math.Pi)))
	a.Set("empty", mustArray(t, tensor.Shape{0, 5}))
	a.Set("specials", mustArray(t, tensor.Shape{4},
		float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN()), float32(math.Copysign(0, -1))))
	return a
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bin")
	want := sampleArchive(t)

	require.NoError(t, Write(path, want))

	got, err := Read(path)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
	assert.Equal(t, want.Keys(), got.Keys())
}

func TestRoundTrip_Stream(t *testing.T) {
	want := sampleArchive(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, want))

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestReadThenWriteIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.bin")
	second := filepath.Join(dir, "second.bin")

	require.NoError(t, Write(first, sampleArchive(t)))
	a, err := Read(first)
	require.NoError(t, err)
	require.NoError(t, Write(second, a))

	b1, err := os.ReadFile(first)
	require.NoError(t, err)
	b2, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestEmptyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, Write(path, NewArchive()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, raw)

	a, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
}

func TestWriteNilArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, nil))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf.Bytes())
}

func TestByteLayout(t *testing.T) {
	a := NewArchive()
	a.Set("ab", mustArray(t, tensor.Shape{2, 1}, 1.5, -2))
	a.Set("s", mustArray(t, nil, 7))
	a.Set("z", mustArray(t, tensor.Shape{0, 5}))

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, a))

	want := new(fileBuilder).
		int32s(3).
		key("ab").key("s").key("z").
		int32s(2, 2, 1).floats(1.5, -2).
		int32s(0).floats(7).
		int32s(2, 0, 5).
		bytes()
	assert.Equal(t, want, buf.Bytes())
}

func TestZeroSizeDimension(t *testing.T) {
	raw := new(fileBuilder).
		int32s(1).key("e").
		int32s(2, 0, 5).
		bytes()

	a, err := ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	arr, ok := a.Get("e")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{0, 5}, arr.Sizes)
	assert.Empty(t, arr.Data)
}

func TestRankZero(t *testing.T) {
	raw := new(fileBuilder).
		int32s(1).key("s").
		int32s(0).floats(42).
		bytes()

	a, err := ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	arr, ok := a.Get("s")
	require.True(t, ok)
	assert.Equal(t, 0, arr.Rank())
	assert.Equal(t, []float32{42}, arr.Data)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, a))
	assert.Equal(t, raw, buf.Bytes())
}

func TestKeyOrderIndependence(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"reverse", []string{"b", "a"}},
		{"sorted", []string{"a", "b"}},
	}

	values := map[string]float32{"a": 1, "b": 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(fileBuilder).int32s(int32(len(tt.keys)))
			for _, k := range tt.keys {
				b.key(k)
			}
			for _, k := range tt.keys {
				b.int32s(1, 1).floats(values[k])
			}

			a, err := ReadFrom(bytes.NewReader(b.bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.keys, a.Keys())
			for k, v := range values {
				arr, ok := a.Get(k)
				require.True(t, ok)
				assert.Equal(t, []float32{v}, arr.Data)
			}
		})
	}
}

func TestDuplicateKeyLastWins(t *testing.T) {
	raw := new(fileBuilder).
		int32s(2).key("w").key("w").
		int32s(1, 1).floats(1).
		int32s(1, 2).floats(2, 3).
		bytes()

	a, err := ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())
	arr, _ := a.Get("w")
	assert.Equal(t, []float32{2, 3}, arr.Data)
}

func TestKeysAreRawBytes(t *testing.T) {
	a := NewArchive()
	a.Set("", mustArray(t, nil, 1))
	a.Set("\xff\x00tail", mustArray(t, nil, 2))
	a.Set("ключ", mustArray(t, nil, 3))

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, a))

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, a.Keys(), got.Keys())
	assert.True(t, a.Equal(got))
}
