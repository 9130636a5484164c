package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultKDEPoints is the number of evaluation points of a density curve.
const DefaultKDEPoints = 1000

// ErrDegenerate reports a sample a kernel density cannot be fitted to.
var ErrDegenerate = errors.New("sample needs at least two distinct values")

// Density is a kernel density estimate evaluated on a grid.
type Density struct {
	X         []float64
	Y         []float64
	Bandwidth float64
}

// ScottBandwidth returns the Gaussian kernel bandwidth for values by Scott's rule.
func ScottBandwidth(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, ErrDegenerate
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0, ErrDegenerate
	}
	return sd * math.Pow(float64(len(values)), -0.2), nil
}

// KDE estimates the density of values over [min-range/2, max+range/2].
func KDE(values []float64, points int) (Density, error) {
	if len(values) < 2 {
		return Density{}, ErrDegenerate
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	return KDEOver(values, lo-span/2, hi+span/2, points)
}

// KDEOver estimates the density of values on points evenly spaced in [lo, hi].
func KDEOver(values []float64, lo, hi float64, points int) (Density, error) {
	bw, err := ScottBandwidth(values)
	if err != nil {
		return Density{}, err
	}
	if points < 2 {
		points = 2
	}
	xs := make([]float64, points)
	floats.Span(xs, lo, hi)

	kernels := make([]distuv.Normal, len(values))
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}
	ys := make([]float64, points)
	n := float64(len(values))
	for i, x := range xs {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		ys[i] = sum / n
	}
	return Density{X: xs, Y: ys, Bandwidth: bw}, nil
}
