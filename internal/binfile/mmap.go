package binfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// ReadMapped decodes the archive at path through a read-only memory mapping
// instead of buffered reads. Decoded keys and arrays are copied out of the
// mapping, so the result stays valid after the file is unmapped and closed.
func ReadMapped(path string, opts ...Option) (a *Archive, err error) {
	//nolint:gosec // G304: File path comes from the caller, which is expected for archive loading
	file, err := os.Open(path)
	if err != nil {
		return nil, newError(opLoad, path, KindIO, fmt.Errorf("%w: %w", ErrNotAccessible, err))
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, newError(opLoad, path, KindIO, errors.Wrap(err, "stat"))
	}
	// Empty files cannot be mapped.
	if stat.Size() == 0 {
		return nil, newError(opLoad, path, KindFormat, errors.Wrap(ErrTruncated, "read number of keys"))
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, newError(opLoad, path, KindIO, errors.Wrap(err, "mmap"))
	}
	defer func() {
		if uerr := m.Unmap(); uerr != nil && err == nil {
			a, err = nil, newError(opLoad, path, KindIO, errors.Wrap(uerr, "munmap"))
		}
	}()

	a, err = decode(bytes.NewReader(m), applyOptions(opts))
	if err != nil {
		return nil, newError(opLoad, path, classify(err), err)
	}
	return a, nil
}
