package binfile

import (
	"maps"
	"slices"
)

// Archive maps string keys to arrays.
//
// Keys are kept in insertion order, which is the order Write uses. Setting
// an existing key replaces its array in place without moving the key.
// The archive owns its arrays: callers must not share one array between
// archives or keys.
type Archive struct {
	keys   []string
	arrays map[string]*MultidimArray
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{
		arrays: make(map[string]*MultidimArray),
	}
}

// FromMap builds an archive from m with keys in sorted order.
func FromMap(m map[string]*MultidimArray) *Archive {
	a := NewArchive()
	for _, key := range slices.Sorted(maps.Keys(m)) {
		a.Set(key, m[key])
	}
	return a
}

// Len returns the number of arrays.
func (a *Archive) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Set stores arr under key.
func (a *Archive) Set(key string, arr *MultidimArray) {
	if a.arrays == nil {
		a.arrays = make(map[string]*MultidimArray)
	}
	if _, ok := a.arrays[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.arrays[key] = arr
}

// Get returns the array stored under key.
func (a *Archive) Get(key string) (*MultidimArray, bool) {
	if a == nil {
		return nil, false
	}
	arr, ok := a.arrays[key]
	return arr, ok
}

// Delete removes key and reports whether it was present.
func (a *Archive) Delete(key string) bool {
	if a == nil {
		return false
	}
	if _, ok := a.arrays[key]; !ok {
		return false
	}
	delete(a.arrays, key)
	if i := slices.Index(a.keys, key); i >= 0 {
		a.keys = slices.Delete(a.keys, i, i+1)
	}
	return true
}

// Keys returns the keys in write order.
func (a *Archive) Keys() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// Range calls fn for each entry in write order until fn returns false.
func (a *Archive) Range(fn func(key string, arr *MultidimArray) bool) {
	if a == nil {
		return
	}
	for _, key := range a.keys {
		if !fn(key, a.arrays[key]) {
			return
		}
	}
}

// ToMap returns the entries as a plain map. Arrays are not copied.
func (a *Archive) ToMap() map[string]*MultidimArray {
	m := make(map[string]*MultidimArray, a.Len())
	a.Range(func(key string, arr *MultidimArray) bool {
		m[key] = arr
		return true
	})
	return m
}

// Equal reports whether both archives hold the same keys with equal arrays.
// Key order is not compared.
func (a *Archive) Equal(other *Archive) bool {
	if a.Len() != other.Len() {
		return false
	}
	equal := true
	a.Range(func(key string, arr *MultidimArray) bool {
		o, ok := other.Get(key)
		equal = ok && arr.Equal(o)
		return equal
	})
	return equal
}

// Validate checks every array and key against the file format.
func (a *Archive) Validate() error {
	var err error
	a.Range(func(key string, arr *MultidimArray) bool {
		if len(key) > MaxField {
			err = &ValidationError{Key: key[:16], Err: ErrOutOfRange, Details: "key too long"}
			return false
		}
		if verr := arr.Validate(); verr != nil {
			if ve, ok := verr.(*ValidationError); ok {
				ve.Key = key
			}
			err = verr
			return false
		}
		return true
	})
	return err
}
