package binfile

import (
	"fmt"
	"math"

	"github.com/born-ml/mdarchive/internal/tensor"
)

// MultidimArray is a float32 array in row-major order.
//
// Sizes holds one entry per dimension and Data holds the flattened values,
// with the last dimension varying fastest:
//
//	index := i*Sizes[1]*Sizes[2] + j*Sizes[2] + k
//
// len(Data) must equal Sizes.NumElements(). A rank-0 array (empty Sizes)
// holds exactly one value; a zero in any dimension means Data is empty.
type MultidimArray struct {
	Sizes tensor.Shape
	Data  []float32
}

// NewMultidimArray allocates a zero-filled array with the given sizes.
func NewMultidimArray(sizes ...int) (*MultidimArray, error) {
	shape := tensor.Shape(sizes).Clone()
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	return &MultidimArray{
		Sizes: shape,
		Data:  make([]float32, n),
	}, nil
}

// FromData builds an array from copies of sizes and data.
func FromData(sizes tensor.Shape, data []float32) (*MultidimArray, error) {
	a := &MultidimArray{
		Sizes: sizes.Clone(),
		Data:  append(make([]float32, 0, len(data)), data...),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Rank returns the number of dimensions.
func (a *MultidimArray) Rank() int {
	return len(a.Sizes)
}

// NumElements returns the element count implied by Sizes.
func (a *MultidimArray) NumElements() int {
	return a.Sizes.NumElements()
}

// Validate checks that every size fits the file format and that Data has
// exactly as many elements as Sizes describes.
func (a *MultidimArray) Validate() error {
	if a == nil {
		return &ValidationError{Err: ErrNilArray, Details: "array is nil"}
	}
	n, err := checkShape(a.Sizes)
	if err != nil {
		return err
	}
	if len(a.Data) != n {
		return &ValidationError{
			Err:     ErrShapeMismatch,
			Details: fmt.Sprintf("sizes %v need %d elements, got %d", a.Sizes, n, len(a.Data)),
		}
	}
	return nil
}

// checkShape validates sizes against the int32 fields of the format and
// returns the element count.
func checkShape(sizes tensor.Shape) (int, error) {
	if len(sizes) > MaxField {
		return 0, &ValidationError{
			Err:     ErrOutOfRange,
			Details: fmt.Sprintf("rank %d", len(sizes)),
		}
	}
	for i, s := range sizes {
		if s < 0 {
			return 0, &ValidationError{
				Err:     ErrNegativeDim,
				Details: fmt.Sprintf("size %d at dimension %d", s, i),
			}
		}
		if s > MaxField {
			return 0, &ValidationError{
				Err:     ErrOutOfRange,
				Details: fmt.Sprintf("size %d at dimension %d", s, i),
			}
		}
	}
	n, err := sizes.CheckedNumElements()
	if err != nil {
		return 0, &ValidationError{Err: ErrOutOfRange, Details: err.Error()}
	}
	return n, nil
}

// Index returns the flat row-major offset of the element at coords.
func (a *MultidimArray) Index(coords ...int) (int, error) {
	return a.Sizes.FlatIndex(coords...)
}

// At returns the element at coords.
func (a *MultidimArray) At(coords ...int) (float32, error) {
	idx, err := a.Index(coords...)
	if err != nil {
		return 0, err
	}
	if idx >= len(a.Data) {
		return 0, fmt.Errorf("index %d beyond data length %d", idx, len(a.Data))
	}
	return a.Data[idx], nil
}

// Set stores v at coords.
func (a *MultidimArray) Set(v float32, coords ...int) error {
	idx, err := a.Index(coords...)
	if err != nil {
		return err
	}
	if idx >= len(a.Data) {
		return fmt.Errorf("index %d beyond data length %d", idx, len(a.Data))
	}
	a.Data[idx] = v
	return nil
}

// Clone returns a deep copy that shares no buffers with a.
func (a *MultidimArray) Clone() *MultidimArray {
	return &MultidimArray{
		Sizes: a.Sizes.Clone(),
		Data:  append(make([]float32, 0, len(a.Data)), a.Data...),
	}
}

// Equal reports whether both arrays have the same sizes and bit-identical data.
func (a *MultidimArray) Equal(other *MultidimArray) bool {
	if a == nil || other == nil {
		return a == other
	}
	if !a.Sizes.Equal(other.Sizes) || len(a.Data) != len(other.Data) {
		return false
	}
	for i, v := range a.Data {
		if math.Float32bits(v) != math.Float32bits(other.Data[i]) {
			return false
		}
	}
	return true
}
