// Package randstream_test: distribution transform sanity checks.
// These are statistical smoke tests over fixed seeds, not full
// goodness-of-fit suites; determinism makes their outcomes stable.
package randstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sketch/grid"
	"github.com/katalvlaran/sketch/randstream"
)

const sampleCount = 20000

// drawn reserves one window of n samples from a fresh context.
func drawn(t *testing.T, d randstream.Distribution, n int) []float64 {
	t.Helper()
	ctx, err := randstream.New(testSeed, grid.Single())
	require.NoError(t, err) // context construction must succeed

	s, err := ctx.ReserveSamples(n, d)
	require.NoError(t, err) // reservation must succeed

	return s.Materialize()
}

func TestUniform_Range(t *testing.T) {
	vals := drawn(t, randstream.Uniform{Lo: -2, Hi: 3}, sampleCount)
	for _, v := range vals {
		require.GreaterOrEqual(t, v, -2.0) // lower bound inclusive
		require.Less(t, v, 3.0)            // upper bound exclusive
	}
}

func TestRademacher_SignsOnly(t *testing.T) {
	vals := drawn(t, randstream.Rademacher{}, sampleCount)
	plus := 0
	for _, v := range vals {
		require.True(t, v == 1.0 || v == -1.0) // only +/-1 are legal
		if v == 1.0 {
			plus++
		}
	}
	// Balanced within 5 sigma of a fair coin.
	require.InDelta(t, float64(sampleCount)/2, float64(plus), 5*70.8)
}

func TestGaussian_Moments(t *testing.T) {
	vals := drawn(t, randstream.Gaussian{Mean: 1, Sigma: 2}, sampleCount)
	var sum, sumSq float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / sampleCount
	for _, v := range vals {
		sumSq += (v - mean) * (v - mean)
	}
	variance := sumSq / sampleCount

	require.InDelta(t, 1.0, mean, 0.1)     // mean close to 1
	require.InDelta(t, 4.0, variance, 0.3) // variance close to sigma^2
}

func TestExponential_PositiveWithUnitMean(t *testing.T) {
	vals := drawn(t, randstream.Exponential{Rate: 1}, sampleCount)
	var sum float64
	for _, v := range vals {
		require.Greater(t, v, 0.0) // exponential support is positive
		sum += v
	}
	require.InDelta(t, 1.0, sum/sampleCount, 0.05) // mean 1/rate
}

func TestUniformInt_BucketsCovered(t *testing.T) {
	const buckets = 8
	vals := drawn(t, randstream.UniformInt{N: buckets}, sampleCount)
	seen := make([]int, buckets)
	for _, v := range vals {
		idx := int(v)
		require.GreaterOrEqual(t, idx, 0)  // bucket lower bound
		require.Less(t, idx, buckets)      // bucket upper bound
		require.Equal(t, float64(idx), v)  // integral value
		seen[idx]++
	}
	for b, c := range seen {
		require.Greater(t, c, 0, "bucket %d never hit", b) // coverage
	}
}

func TestSamples_OutOfWindowPanics(t *testing.T) {
	ctx, _ := randstream.New(testSeed, grid.Single())
	s, _ := ctx.ReserveSamples(4, randstream.Rademacher{})
	require.Panics(t, func() { s.At(4) })  // past the window
	require.Panics(t, func() { s.At(-1) }) // before the window
}
