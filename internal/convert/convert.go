// Package convert moves archives between the binary format and a YAML
// document, for producing archives from hand-written or exported arrays and
// for inspecting decoded ones.
//
// Document layout:
//
//	arrays:
//	  - name: bar
//	    sizes: [2, 3]
//	    data: [1, 2, 3, 4, 5, 6]
//
// Entries keep their document order, which becomes the archive write order.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/mdarchive/internal/binfile"
	"github.com/born-ml/mdarchive/internal/tensor"
)

// Document is the YAML form of an archive.
type Document struct {
	Arrays []Entry `yaml:"arrays"`
}

// Entry is one named array. Omitted sizes describe a scalar.
type Entry struct {
	Name  string    `yaml:"name"`
	Sizes []int     `yaml:"sizes,flow"`
	Data  []float32 `yaml:"data,flow"`
}

// Summary describes an array without its data.
type Summary struct {
	Name     string `yaml:"name"`
	Rank     int    `yaml:"rank"`
	Sizes    []int  `yaml:"sizes,flow"`
	Elements int    `yaml:"elements"`
}

// DecodeYAML builds an archive from a YAML document.
// A repeated name replaces the earlier entry.
func DecodeYAML(r io.Reader) (*binfile.Archive, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a parsed document into an archive.
func FromDocument(doc Document) (*binfile.Archive, error) {
	a := binfile.NewArchive()
	for i, e := range doc.Arrays {
		arr, err := binfile.FromData(tensor.Shape(e.Sizes), e.Data)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
		a.Set(e.Name, arr)
	}
	return a, nil
}

// ToDocument converts an archive into its YAML document form.
func ToDocument(a *binfile.Archive) Document {
	doc := Document{Arrays: make([]Entry, 0, a.Len())}
	a.Range(func(key string, arr *binfile.MultidimArray) bool {
		doc.Arrays = append(doc.Arrays, Entry{
			Name:  key,
			Sizes: arr.Sizes.Clone(),
			Data:  arr.Data,
		})
		return true
	})
	return doc
}

// EncodeYAML writes a in archive order.
func EncodeYAML(w io.Writer, a *binfile.Archive) error {
	return encode(w, ToDocument(a))
}

// Summarize lists every array's name and shape in archive order.
func Summarize(a *binfile.Archive) []Summary {
	out := make([]Summary, 0, a.Len())
	a.Range(func(key string, arr *binfile.MultidimArray) bool {
		out = append(out, Summary{
			Name:     key,
			Rank:     arr.Rank(),
			Sizes:    arr.Sizes.Clone(),
			Elements: len(arr.Data),
		})
		return true
	})
	return out
}

// EncodeSummary writes Summarize(a) as a YAML sequence.
func EncodeSummary(w io.Writer, a *binfile.Archive) error {
	return encode(w, Summarize(a))
}

func encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish document: %w", err)
	}
	return nil
}

// LoadYAML reads the YAML document at path.
func LoadYAML(path string) (*binfile.Archive, error) {
	//nolint:gosec // G304: File path comes from user input
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	a, err := DecodeYAML(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// SaveYAML writes a as a YAML document at path.
func SaveYAML(path string, a *binfile.Archive) (err error) {
	//nolint:gosec // G304: File path comes from user input
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return EncodeYAML(file, a)
}
