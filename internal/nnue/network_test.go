package nnue

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeNetwork serializes net in the exact binary layout Load expects,
// the inverse of Load, used only to build fixtures for these tests.
func encodeNetwork(t *testing.T, net *Network) []byte {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < InputDimensions; i++ {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, net.InputWeights[i]))
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, net.HiddenBiases))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, net.OutputWeights))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, net.OutputBias))
	require.Equal(t, blobSize, buf.Len())
	return buf.Bytes()
}

func TestLoadRoundTripsAWellFormedBlob(t *testing.T) {
	net := NewZero()
	net.InputWeights[0][0] = 7
	net.InputWeights[767][127] = -3
	net.HiddenBiases[5] = 42
	net.OutputWeights[2*Hidden-1] = 9
	net.OutputBias = 11

	blob := encodeNetwork(t, net)
	got, err := Load(bytes.NewReader(blob))
	require.NoError(t, err)
	require.Equal(t, net, got)
}

func TestLoadRejectsTruncatedBlob(t *testing.T) {
	net := NewZero()
	blob := encodeNetwork(t, net)
	_, err := Load(bytes.NewReader(blob[:blobSize-1]))
	require.Error(t, err)
}

func TestLoadRejectsEmptyBlob(t *testing.T) {
	_, err := Load(bytes.NewReader(nil))
	require.Error(t, err)
}

func TestNewZeroIsAllZeroWeights(t *testing.T) {
	net := NewZero()
	require.Equal(t, int16(0), net.HiddenBiases[0])
	require.Equal(t, int16(0), net.OutputBias)
	require.Equal(t, int16(0), net.InputWeights[0][0])
}

func TestClampedSquareClampsToQA(t *testing.T) {
	require.Equal(t, int32(0), clampedSquare(-5))
	require.Equal(t, int32(QA*QA), clampedSquare(QA+100))
	require.Equal(t, int32(10*10), clampedSquare(10))
}
