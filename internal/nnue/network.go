// Package nnue implements the efficiently-updatable neural network
// evaluator: two 768-wide input halves (one per side), each projected
// into a 128-wide hidden layer, concatenated and reduced through a
// squared-clipped-ReLU output layer to a centipawn-scaled scalar.
package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	InputDimensions = 768 // 12 piece-kind/side combinations x 64 squares
	Hidden          = 128
	Scale           = 400
	QA              = 255
	QB              = 64
)

// Network holds the read-only, quantized weight blob. It is safe for
// concurrent read access once loaded; there is no mutation after Load
// returns.
type Network struct {
	InputWeights [InputDimensions][Hidden]int16
	HiddenBiases [Hidden]int16
	OutputWeights [2 * Hidden]int16
	OutputBias   int16
}

// blobSize is sizeof(Nnue) in the binary layout: inputWeights + hidden
// biases + output weights + a single int16 output bias.
const blobSize = InputDimensions*Hidden*2 + Hidden*2 + 2*Hidden*2 + 2

// Load reads a parameter blob in the exact binary layout Network expects.
// A short or malformed blob is a fatal error rather than a silent
// fallback, matching the strict parsing style used elsewhere in this
// engine (FEN, UCI move strings).
func Load(r io.Reader) (*Network, error) {
	net := &Network{}
	for i := 0; i < InputDimensions; i++ {
		if err := binary.Read(r, binary.LittleEndian, &net.InputWeights[i]); err != nil {
			return nil, fmt.Errorf("nnue: reading input weights row %d: %w", i, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &net.HiddenBiases); err != nil {
		return nil, fmt.Errorf("nnue: reading hidden biases: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &net.OutputWeights); err != nil {
		return nil, fmt.Errorf("nnue: reading output weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &net.OutputBias); err != nil {
		return nil, fmt.Errorf("nnue: reading output bias: %w", err)
	}
	return net, nil
}

// NewZero returns a network with every weight zeroed — not a useful
// evaluator, but a valid fallback blob shape so the engine can start and
// search (with a flat evaluation) before a trained network is loaded.
func NewZero() *Network { return &Network{} }

func clampedSquare(x int32) int32 {
	if x < 0 {
		x = 0
	}
	if x > QA {
		x = QA
	}
	return x * x
}
