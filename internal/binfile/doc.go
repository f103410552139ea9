// Package binfile reads and writes dictionaries of named multidimensional
// float32 arrays stored in a single contiguous binary file.
//
//	Format Structure (all integers int32, floats IEEE-754 float32, host byte order):
//	  [num_keys]
//	  num_keys x [key_len][key bytes]
//	  num_keys x [rank][rank x size][prod(sizes) x float32]
//
// The array blocks follow the same order as the keys. There is no magic
// number, version, checksum or padding, and no byte order tag: files are only
// portable between hosts that share the native integer and float layout.
//
// Example (foo: 13x32x32x2, bar: 12x19):
//
//	2
//	3 "foo"
//	3 "bar"
//	4 13 32 32 2 [13*32*32*2 floats]
//	2 12 19 [12*19 floats]
//
// Example usage:
//
//	a := binfile.NewArchive()
//	w, _ := binfile.NewMultidimArray(12, 19)
//	a.Set("bar", w)
//	if err := binfile.Write("weights.bin", a); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, err := binfile.Read("weights.bin")
//	if binfile.IsFormatError(err) {
//	    // corrupt or truncated file
//	}
package binfile
