// SPDX-License-Identifier: MIT

// Package randstream: distribution transforms over uniform PRF words.
//
// Each Distribution is a pure, stateless transform of a single uint64 word.
// Statelessness is what makes Samples randomly addressable: element i never
// depends on element i-1. Samplers that consume a sequential source (such as
// gonum's distuv generators) cannot provide this property, hence the
// inverse-CDF constructions below.
package randstream

import "math"

// twoPow53Inv converts the top 53 bits of a word into a float64 in [0, 1).
const twoPow53Inv = 1.0 / (1 << 53)

// Distribution transforms one uniform 64-bit word into one sample.
// Implementations must be pure: same word, same sample.
type Distribution interface {
	// Transform maps a uniform word to a sample value.
	Transform(word uint64) float64
}

// Uniform is the continuous uniform distribution on [Lo, Hi).
type Uniform struct {
	Lo, Hi float64
}

// Transform maps the word to Lo + (Hi-Lo)*u with u in [0, 1).
func (d Uniform) Transform(word uint64) float64 {
	u := float64(word>>11) * twoPow53Inv

	return d.Lo + (d.Hi-d.Lo)*u
}

// Gaussian is the normal distribution with the given mean and standard
// deviation, realized by the inverse CDF (probit) so one word yields one
// sample. Box-Muller would consume two words and break random addressing.
type Gaussian struct {
	Mean, Sigma float64
}

// Transform maps the word through the probit function.
// u is offset by half an ulp-slot so it never reaches 0 or 1 exactly.
func (d Gaussian) Transform(word uint64) float64 {
	u := (float64(word>>11) + 0.5) * twoPow53Inv

	return d.Mean + d.Sigma*math.Sqrt2*math.Erfinv(2.0*u-1.0)
}

// Rademacher yields +1 or -1 with equal probability.
type Rademacher struct{}

// Transform selects the sign from the word's top bit.
func (Rademacher) Transform(word uint64) float64 {
	if word>>63 == 0 {
		return 1.0
	}

	return -1.0
}

// Exponential is the exponential distribution with the given rate (lambda).
type Exponential struct {
	Rate float64
}

// Transform maps the word through -ln(u)/rate with u in (0, 1].
func (d Exponential) Transform(word uint64) float64 {
	u := (float64(word>>11) + 1.0) * twoPow53Inv // (0, 1]

	return -math.Log(u) / d.Rate
}

// UniformInt yields integers uniformly in [0, N). Values are returned as
// float64 (truncate to recover the integer); the modulo bias is below 2^-32
// for any N that fits a hash-bucket table and is accepted by design.
type UniformInt struct {
	N int
}

// Transform reduces the word modulo N.
func (d UniformInt) Transform(word uint64) float64 {
	return float64(word % uint64(d.N))
}
