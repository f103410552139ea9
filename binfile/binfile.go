// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package binfile reads and writes files holding a dictionary of named
// multidimensional float32 arrays.
//
// This package wraps the internal codec and exports its public API.
//
// Example usage:
//
//	import "github.com/born-ml/mdarchive/binfile"
//
//	a := binfile.NewArchive()
//	w, _ := binfile.NewMultidimArray(13, 32, 32, 2)
//	a.Set("foo", w)
//	if err := binfile.Write("arrays.bin", a); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, err := binfile.Read("arrays.bin", binfile.WithVerbose(os.Stdout))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	foo, _ := loaded.Get("foo")
//	v, _ := foo.At(0, 1, 2, 1)
package binfile

import (
	"io"

	"github.com/born-ml/mdarchive/internal/binfile"
	"github.com/born-ml/mdarchive/internal/tensor"
)

// Shape lists the size of each dimension of an array.
type Shape = tensor.Shape

// MultidimArray is a float32 array in row-major order.
//
// Sizes holds one entry per dimension; Data holds the flattened values
// with the last dimension varying fastest. len(Data) always equals the
// product of Sizes, and a rank-0 array holds one value.
type MultidimArray = binfile.MultidimArray

// Archive is an ordered mapping from string keys to arrays.
// Its key order is the order in which Write stores the arrays.
type Archive = binfile.Archive

// Option configures a decode operation.
type Option = binfile.Option

// Error is returned by Read, ReadMapped, ReadFrom, Write and WriteTo.
// Its message is prefixed with the file path.
type Error = binfile.Error

// ErrorKind classifies an Error.
type ErrorKind = binfile.ErrorKind

// ValidationError describes an array whose sizes and data disagree.
type ValidationError = binfile.ValidationError

// Error kinds.
const (
	KindIO      ErrorKind = binfile.KindIO
	KindFormat  ErrorKind = binfile.KindFormat
	KindInvalid ErrorKind = binfile.KindInvalid
)

// Sentinel causes, usable with errors.Is.
var (
	ErrNotAccessible = binfile.ErrNotAccessible
	ErrTruncated     = binfile.ErrTruncated
	ErrCorrupt       = binfile.ErrCorrupt
	ErrShapeMismatch = binfile.ErrShapeMismatch
	ErrNegativeDim   = binfile.ErrNegativeDim
	ErrOutOfRange    = binfile.ErrOutOfRange
	ErrNilArray      = binfile.ErrNilArray
)

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return binfile.NewArchive()
}

// FromMap builds an archive from m, ordering keys lexicographically.
func FromMap(m map[string]*MultidimArray) *Archive {
	return binfile.FromMap(m)
}

// NewMultidimArray allocates a zero-filled array.
func NewMultidimArray(sizes ...int) (*MultidimArray, error) {
	return binfile.NewMultidimArray(sizes...)
}

// FromData builds an array from copies of sizes and data.
func FromData(sizes Shape, data []float32) (*MultidimArray, error) {
	return binfile.FromData(sizes, data)
}

// Read decodes the archive stored at path.
func Read(path string, opts ...Option) (*Archive, error) {
	return binfile.Read(path, opts...)
}

// ReadMapped decodes the archive at path through a memory mapping.
func ReadMapped(path string, opts ...Option) (*Archive, error) {
	return binfile.ReadMapped(path, opts...)
}

// ReadFrom decodes an archive from r.
func ReadFrom(r io.Reader, opts ...Option) (*Archive, error) {
	return binfile.ReadFrom(r, opts...)
}

// Write stores a at path, creating or truncating the file.
func Write(path string, a *Archive) error {
	return binfile.Write(path, a)
}

// WriteTo encodes a to w.
func WriteTo(w io.Writer, a *Archive) error {
	return binfile.WriteTo(w, a)
}

// WithVerbose prints each array's key and sizes to w while decoding.
func WithVerbose(w io.Writer) Option {
	return binfile.WithVerbose(w)
}

// IsIOError reports whether err comes from file access or physical I/O.
func IsIOError(err error) bool {
	return binfile.IsIOError(err)
}

// IsFormatError reports whether err comes from a truncated or corrupt file.
func IsFormatError(err error) bool {
	return binfile.IsFormatError(err)
}

// IsInvalidError reports whether err comes from an inconsistent in-memory archive.
func IsInvalidError(err error) bool {
	return binfile.IsInvalidError(err)
}
