package binfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Write stores a at path, creating or truncating the file.
//
// The archive is validated before the file is touched. A failure while
// writing may leave a partial file behind; no temporary file is used.
func Write(path string, a *Archive) (err error) {
	if verr := a.Validate(); verr != nil {
		return newError(opWrite, path, KindInvalid, verr)
	}

	//nolint:gosec // G304: File path comes from the caller, which is expected for archive saving
	file, err := os.Create(path)
	if err != nil {
		return newError(opWrite, path, KindIO, fmt.Errorf("%w: %w", ErrNotAccessible, err))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = newError(opWrite, path, KindIO, errors.Wrap(cerr, "close"))
		}
	}()

	if err := encode(file, a); err != nil {
		return newError(opWrite, path, KindIO, err)
	}
	return nil
}

// WriteTo encodes a to w.
func WriteTo(w io.Writer, a *Archive) error {
	if err := a.Validate(); err != nil {
		return newError(opWrite, "", KindInvalid, err)
	}
	if err := encode(w, a); err != nil {
		return newError(opWrite, "", KindIO, err)
	}
	return nil
}

type encoder struct {
	w       *bufio.Writer
	scratch []byte
}

// encode writes the key table and then the array blocks. Both passes walk
// the same key snapshot; a reader pairs keys and arrays purely by position.
func encode(w io.Writer, a *Archive) error {
	e := &encoder{w: bufio.NewWriter(w)}
	keys := a.Keys()

	//nolint:gosec // G115: Validate bounds every count by MaxField
	if err := e.writeInt32(int32(len(keys)), "number of keys"); err != nil {
		return err
	}
	for i, key := range keys {
		//nolint:gosec // G115: Validate bounds every count by MaxField
		if err := e.writeInt32(int32(len(key)), "length of key %d", i); err != nil {
			return err
		}
		if _, err := e.w.WriteString(key); err != nil {
			return errors.Wrapf(err, "write key %d", i)
		}
	}

	for _, key := range keys {
		arr, _ := a.Get(key)
		if err := e.writeArray(key, arr); err != nil {
			return err
		}
	}

	if err := e.w.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

func (e *encoder) writeArray(key string, arr *MultidimArray) error {
	//nolint:gosec // G115: Validate bounds every count by MaxField
	if err := e.writeInt32(int32(len(arr.Sizes)), "rank of %q", key); err != nil {
		return err
	}
	for i, s := range arr.Sizes {
		//nolint:gosec // G115: Validate bounds every size by MaxField
		if err := e.writeInt32(int32(s), "size %d of %q", i, key); err != nil {
			return err
		}
	}
	return e.writeFloats(arr.Data, "data of %q", key)
}

func (e *encoder) writeInt32(v int32, format string, args ...any) error {
	e.scratch = byteOrder.AppendUint32(e.scratch[:0], uint32(v))
	if _, err := e.w.Write(e.scratch); err != nil {
		return errors.Wrapf(err, "write "+format, args...)
	}
	return nil
}

func (e *encoder) writeFloats(data []float32, format string, args ...any) error {
	for len(data) > 0 {
		chunk := data[:min(len(data), chunkElems)]
		data = data[len(chunk):]

		e.scratch = e.scratch[:0]
		for _, v := range chunk {
			e.scratch = byteOrder.AppendUint32(e.scratch, math.Float32bits(v))
		}
		if _, err := e.w.Write(e.scratch); err != nil {
			return errors.Wrapf(err, "write "+format, args...)
		}
	}
	return nil
}
