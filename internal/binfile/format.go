package binfile

import (
	"encoding/binary"
	"math"
)

// Format constants.
const (
	Int32Size   = 4 // Every integer field is a 4-byte signed integer
	Float32Size = 4 // Every element is a 4-byte IEEE-754 float

	// MaxField is the largest count, length or size the format can carry.
	MaxField = math.MaxInt32

	// chunkElems bounds a single float read or write so that memory grows
	// with the bytes actually present rather than with declared sizes.
	chunkElems = 16 * 1024
)

// byteOrder is the host's native order; the format carries no order tag.
var byteOrder = binary.NativeEndian
