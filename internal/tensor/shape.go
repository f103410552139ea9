// Package tensor provides the shape arithmetic shared by the array codec.
package tensor

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of a row-major array.
type Shape []int

// NumElements returns the total number of elements.
// A scalar (empty shape) has one element; any zero dimension yields zero.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// CheckedNumElements is NumElements with overflow and sign checking.
func (s Shape) CheckedNumElements() (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	n := 1
	for i, dim := range s {
		if dim == 0 {
			return 0, nil
		}
		if n > math.MaxInt/dim {
			return 0, fmt.Errorf("element count overflows at dimension %d of %v", i, s)
		}
		n *= dim
	}
	return n, nil
}

// Validate checks that every dimension is non-negative.
// Zero-sized dimensions are allowed and describe empty arrays.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// FlatIndex maps coordinates to an offset in the row-major buffer.
func (s Shape) FlatIndex(coords ...int) (int, error) {
	if len(coords) != len(s) {
		return 0, fmt.Errorf("got %d coordinates for rank %d shape %v", len(coords), len(s), s)
	}
	strides := s.ComputeStrides()
	idx := 0
	for d, c := range coords {
		if c < 0 || c >= s[d] {
			return 0, fmt.Errorf("coordinate %d out of range [0, %d) at dimension %d", c, s[d], d)
		}
		idx += c * strides[d]
	}
	return idx, nil
}

// String formats the shape the way the verbose decoder prints it: [13, 32, 2].
func (s Shape) String() string {
	buf := make([]byte, 0, 2+len(s)*4)
	buf = append(buf, '[')
	for i, dim := range s {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = fmt.Appendf(buf, "%d", dim)
	}
	buf = append(buf, ']')
	return string(buf)
}
