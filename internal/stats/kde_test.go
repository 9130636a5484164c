package stats

import (
	"errors"
	"math"
	"testing"
)

func TestScottBandwidth(t *testing.T) {
	bw, err := ScottBandwidth([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("ScottBandwidth failed: %v", err)
	}
	want := math.Sqrt(5.0/3.0) * math.Pow(4, -0.2)
	if math.Abs(bw-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, bw)
	}
}

func TestKDEDegenerate(t *testing.T) {
	cases := map[string][]float64{
		"empty":    nil,
		"single":   {3},
		"constant": {2, 2, 2},
	}
	for name, values := range cases {
		if _, err := KDE(values, 100); !errors.Is(err, ErrDegenerate) {
			t.Fatalf("%s: expected ErrDegenerate, got %v", name, err)
		}
	}
}

func TestKDEIntegratesToOne(t *testing.T) {
	d, err := KDE([]float64{0, 1, 2, 3, 4}, DefaultKDEPoints)
	if err != nil {
		t.Fatalf("KDE failed: %v", err)
	}
	if len(d.X) != DefaultKDEPoints || len(d.Y) != DefaultKDEPoints {
		t.Fatalf("expected %d points, got %d/%d", DefaultKDEPoints, len(d.X), len(d.Y))
	}
	if d.X[0] != -2 || d.X[len(d.X)-1] != 6 {
		t.Fatalf("unexpected grid bounds: %v..%v", d.X[0], d.X[len(d.X)-1])
	}
	var area float64
	for i := 1; i < len(d.X); i++ {
		area += (d.X[i] - d.X[i-1]) * (d.Y[i] + d.Y[i-1]) / 2
	}
	if area < 0.97 || area > 1.0001 {
		t.Fatalf("expected area close to 1, got %v", area)
	}
	for _, y := range d.Y {
		if y < 0 {
			t.Fatalf("negative density %v", y)
		}
	}
}

func TestKDEOverFixedRange(t *testing.T) {
	d, err := KDEOver([]float64{4, 6}, 0, 10, 11)
	if err != nil {
		t.Fatalf("KDEOver failed: %v", err)
	}
	if d.X[0] != 0 || d.X[10] != 10 || d.X[5] != 5 {
		t.Fatalf("unexpected grid: %v", d.X)
	}
	if d.Y[5] <= d.Y[0] {
		t.Fatalf("expected peak between samples, got %v <= %v", d.Y[5], d.Y[0])
	}
}
