package core

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{name: "unit axis", in: []float32{1, 0, 0}},
		{name: "arbitrary", in: []float32{3, 4}},
		{name: "negative components", in: []float32{-1, 2, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.in)

			var mag float64
			for _, v := range got {
				mag += float64(v) * float64(v)
			}
			mag = math.Sqrt(mag)

			if math.Abs(mag-1.0) > 1e-6 {
				t.Errorf("NormalizeVector() magnitude = %v, want 1.0", mag)
			}
		})
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	got := NormalizeVector([]float32{0, 0, 0})

	if len(got) != 3 {
		t.Fatalf("NormalizeVector() len = %d, want 3", len(got))
	}
	if !IsZeroVector(got) {
		t.Errorf("NormalizeVector() of zero vector = %v, want zero vector", got)
	}
}

func TestNormalizeVector_Empty(t *testing.T) {
	if got := NormalizeVector(nil); len(got) != 0 {
		t.Errorf("NormalizeVector(nil) = %v, want empty", got)
	}
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	NormalizeVector(in)

	if in[0] != 3 || in[1] != 4 {
		t.Errorf("NormalizeVector() mutated input: %v", in)
	}
}

func TestDot(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "identical unit", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "mismatched lengths", a: []float32{1, 1, 1}, b: []float32{2, 2}, want: 4},
		{name: "empty", a: nil, b: []float32{1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dot(tt.a, tt.b); math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("Dot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsZeroVector(t *testing.T) {
	if !IsZeroVector([]float32{0, 0, 0}) {
		t.Error("IsZeroVector() = false for zero vector")
	}
	if !IsZeroVector(nil) {
		t.Error("IsZeroVector() = false for nil")
	}
	if IsZeroVector([]float32{0, 0.001, 0}) {
		t.Error("IsZeroVector() = true for non-zero vector")
	}
}
