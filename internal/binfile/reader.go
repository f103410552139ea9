package binfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/mdarchive/internal/tensor"
)

// Read decodes the archive stored at path.
//
// The file is closed on every return path. On failure the returned archive
// is nil and the error is an *Error whose message starts with the path.
func Read(path string, opts ...Option) (*Archive, error) {
	//nolint:gosec // G304: File path comes from the caller, which is expected for archive loading
	file, err := os.Open(path)
	if err != nil {
		return nil, newError(opLoad, path, KindIO, fmt.Errorf("%w: %w", ErrNotAccessible, err))
	}
	defer file.Close()

	a, err := decode(bufio.NewReader(file), applyOptions(opts))
	if err != nil {
		return nil, newError(opLoad, path, classify(err), err)
	}
	return a, nil
}

// ReadFrom decodes an archive from r.
// Bytes following the last array are left unread.
func ReadFrom(r io.Reader, opts ...Option) (*Archive, error) {
	a, err := decode(r, applyOptions(opts))
	if err != nil {
		return nil, newError(opLoad, "", classify(err), err)
	}
	return a, nil
}

// decoder reads the fixed-width fields of the format in sequence.
type decoder struct {
	r       io.Reader
	scratch []byte
}

func decode(r io.Reader, o *options) (*Archive, error) {
	d := &decoder{r: r}

	numKeys, err := d.readCount("number of keys")
	if err != nil {
		return nil, err
	}

	// Capacity hints are capped: declared counts are untrusted until the
	// bytes behind them have been read.
	keys := make([]string, 0, min(numKeys, chunkElems))
	for i := range numKeys {
		n, err := d.readCount("length of key %d", i)
		if err != nil {
			return nil, err
		}
		key, err := d.readString(n, "key %d", i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	a := NewArchive()
	for _, key := range keys {
		arr, err := d.readArray(key, o)
		if err != nil {
			return nil, err
		}
		a.Set(key, arr)
	}
	return a, nil
}

func (d *decoder) readArray(key string, o *options) (*MultidimArray, error) {
	rank, err := d.readCount("rank of %q", key)
	if err != nil {
		return nil, err
	}
	sizes := make(tensor.Shape, 0, min(rank, chunkElems))
	for i := range rank {
		s, err := d.readCount("size %d of %q", i, key)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}

	if o.verbose != nil {
		fmt.Fprintf(o.verbose, "%s: %v\n", key, sizes)
	}

	n, err := sizes.CheckedNumElements()
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "sizes of %q: %v", key, err)
	}
	data, err := d.readFloats(n, "data of %q", key)
	if err != nil {
		return nil, err
	}
	return &MultidimArray{Sizes: sizes, Data: data}, nil
}

// readFull fills p, mapping a short read to ErrTruncated.
func (d *decoder) readFull(p []byte, format string, args ...any) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrapf(ErrTruncated, "read "+format, args...)
		}
		return errors.Wrapf(err, "read "+format, args...)
	}
	return nil
}

func (d *decoder) readInt32(format string, args ...any) (int32, error) {
	var buf [Int32Size]byte
	if err := d.readFull(buf[:], format, args...); err != nil {
		return 0, err
	}
	//nolint:gosec // G115: reinterpreting the stored bits as signed is the format
	return int32(byteOrder.Uint32(buf[:])), nil
}

// readCount reads an int32 that must be non-negative.
func (d *decoder) readCount(format string, args ...any) (int, error) {
	v, err := d.readInt32(format, args...)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.Wrapf(ErrCorrupt, "negative value %d for "+format, append([]any{v}, args...)...)
	}
	return int(v), nil
}

func (d *decoder) readString(n int, format string, args ...any) (string, error) {
	var buf bytes.Buffer
	buf.Grow(min(n, chunkElems*Float32Size))
	if _, err := io.CopyN(&buf, d.r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			return "", errors.Wrapf(ErrTruncated, "read "+format, args...)
		}
		return "", errors.Wrapf(err, "read "+format, args...)
	}
	return buf.String(), nil
}

// readFloats reads n float32 values in bounded chunks.
func (d *decoder) readFloats(n int, format string, args ...any) ([]float32, error) {
	data := make([]float32, 0, min(n, chunkElems))
	for len(data) < n {
		m := min(n-len(data), chunkElems)
		if cap(d.scratch) < m*Float32Size {
			d.scratch = make([]byte, m*Float32Size)
		}
		buf := d.scratch[:m*Float32Size]
		if err := d.readFull(buf, format, args...); err != nil {
			return nil, err
		}
		for i := 0; i < len(buf); i += Float32Size {
			data = append(data, math.Float32frombits(byteOrder.Uint32(buf[i:])))
		}
	}
	return data, nil
}
