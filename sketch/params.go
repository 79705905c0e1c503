// SPDX-License-Identifier: MIT

// Package sketch: the structured parameter tree.
//
// The tree persists a transform's type tag, base dimensions and the scalar
// parameters needed to regenerate it — never the bulk random arrays. The
// round-trip contract is: Write a transform's tree, Read it back, rebuild
// with FromTree against a context carrying the same seed and stream
// position, and the reconstructed transform computes the same linear map.
package sketch

import (
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sketch/randstream"
)

// Transform kind tags as persisted in the parameter tree.
const (
	KindJLT  = "JLT"
	KindFJLT = "FJLT"
	KindCWT  = "CWT"
	KindWZT  = "WZT"
	KindRFT  = "RFT"
)

// ParamNode holds one transform's serializable parameters.
type ParamNode struct {
	// Type is the transform kind tag (KindJLT, KindWZT, ...).
	Type string `yaml:"type"`
	// N is the input (governing) dimension.
	N int `yaml:"n"`
	// S is the output (sketch) dimension.
	S int `yaml:"s"`
	// P is the WZT exponent; present only for WZT.
	P float64 `yaml:"p,omitempty"`
	// Sigma is the RFT kernel bandwidth; present only for RFT.
	Sigma float64 `yaml:"sigma,omitempty"`
}

// ParamTree is the root of the persisted structure.
type ParamTree struct {
	Sketch ParamNode `yaml:"sketch"`
}

// Write serializes the tree.
func (t *ParamTree) Write() ([]byte, error) {
	return yaml.Marshal(t)
}

// ReadParamTree parses a serialized parameter tree.
func ReadParamTree(data []byte) (*ParamTree, error) {
	var t ParamTree
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// FromTree reconstructs a transform from its parameter tree by re-running
// the same reservation sequence against ctx. Functional identity with the
// original requires ctx to carry the same seed and stream position the
// original constructor saw.
//
// Returns ErrUnknownKind for an unrecognized type tag; otherwise the
// corresponding constructor's errors apply.
func FromTree(t *ParamTree, ctx *randstream.Context) (Transform, error) {
	switch t.Sketch.Type {
	case KindJLT:
		return NewJLT(t.Sketch.N, t.Sketch.S, ctx)
	case KindFJLT:
		return NewFJLT(t.Sketch.N, t.Sketch.S, ctx)
	case KindCWT:
		return NewCWT(t.Sketch.N, t.Sketch.S, ctx)
	case KindWZT:
		return NewWZT(t.Sketch.N, t.Sketch.S, t.Sketch.P, ctx)
	case KindRFT:
		return NewRFT(t.Sketch.N, t.Sketch.S, t.Sketch.Sigma, ctx)
	default:
		return nil, ErrUnknownKind
	}
}
