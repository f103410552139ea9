package tensor

import (
	"math"
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},         // Scalar
		{Shape{5}, 5},        // 1D
		{Shape{3, 4}, 12},    // 2D
		{Shape{2, 3, 4}, 24}, // 3D
		{Shape{0, 5}, 0},     // Empty
		{Shape{7, 0, 3}, 0},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeCheckedNumElements(t *testing.T) {
	n, err := Shape{13, 32, 32, 2}.CheckedNumElements()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 13*32*32*2 {
		t.Errorf("got %d, want %d", n, 13*32*32*2)
	}

	// A zero dimension short-circuits before the overflow check.
	n, err = Shape{math.MaxInt32, math.MaxInt32, math.MaxInt32, 0}.CheckedNumElements()
	if err != nil || n != 0 {
		t.Errorf("got (%d, %v), want (0, nil)", n, err)
	}

	if _, err := (Shape{math.MaxInt32, math.MaxInt32, math.MaxInt32}).CheckedNumElements(); err == nil {
		t.Error("expected overflow error")
	}
	if _, err := (Shape{2, -1}).CheckedNumElements(); err == nil {
		t.Error("expected negative dimension error")
	}
}

func TestShapeValidation(t *testing.T) {
	validShapes := []Shape{
		{},
		{0},
		{1},
		{3, 0},
		{2, 3, 4},
	}

	for _, s := range validShapes {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}

	invalidShapes := []Shape{
		{-1},
		{3, -4},
	}

	for _, s := range invalidShapes {
		if err := s.Validate(); err == nil {
			t.Errorf("Shape%v.Validate() should fail but didn't", s)
		}
	}
}

func TestShapeEqual(t *testing.T) {
	tests := []struct {
		a, b  Shape
		equal bool
	}{
		{Shape{3, 4}, Shape{3, 4}, true},
		{Shape{3, 4}, Shape{4, 3}, false},
		{Shape{3}, Shape{3, 1}, false},
		{Shape{}, Shape{}, true},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.equal {
			t.Errorf("Shape%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.equal)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected []int
	}{
		{Shape{}, []int{}},
		{Shape{4}, []int{1}},
		{Shape{3, 4}, []int{4, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
		{Shape{13, 32, 32, 2}, []int{2048, 64, 2, 1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.expected) {
			t.Fatalf("Shape%v.ComputeStrides() length = %d, want %d", tt.shape, len(got), len(tt.expected))
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("Shape%v.ComputeStrides()[%d] = %d, want %d", tt.shape, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestFlatIndex(t *testing.T) {
	s := Shape{2, 3, 4}

	// i*sizes[1]*sizes[2] + j*sizes[2] + k
	idx, err := s.FlatIndex(1, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 1*3*4 + 2*4 + 3; idx != want {
		t.Errorf("FlatIndex(1, 2, 3) = %d, want %d", idx, want)
	}

	idx, err = Shape{}.FlatIndex()
	if err != nil || idx != 0 {
		t.Errorf("scalar FlatIndex() = (%d, %v), want (0, nil)", idx, err)
	}

	if _, err := s.FlatIndex(1, 2); err == nil {
		t.Error("expected error for wrong coordinate count")
	}
	if _, err := s.FlatIndex(2, 0, 0); err == nil {
		t.Error("expected error for out of range coordinate")
	}
	if _, err := s.FlatIndex(0, -1, 0); err == nil {
		t.Error("expected error for negative coordinate")
	}
}

func TestShapeString(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{Shape{}, "[]"},
		{Shape{12, 19}, "[12, 19]"},
		{Shape{13, 32, 32, 2}, "[13, 32, 32, 2]"},
	}

	for _, tt := range tests {
		if got := tt.shape.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
