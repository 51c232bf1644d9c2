package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nilan/value"
)

func TestWriteOpExtendsLineRunOnSameLine(t *testing.T) {
	c := New()
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpTrue, 1)
	c.WriteOp(OpPop, 2)

	require.Equal(t, int32(1), c.LineAt(0))
	require.Equal(t, int32(1), c.LineAt(1))
	require.Equal(t, int32(2), c.LineAt(2))
}

func TestAddConstantReturnsIndex(t *testing.T) {
	c := New()
	idx, err := c.AddConstant(value.Number(42))
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	idx2, err := c.AddConstant(value.Number(42))
	require.NoError(t, err)
	require.Equal(t, 1, idx2, "AddConstant does not deduplicate")
}

func TestAddConstantEnforcesLimit(t *testing.T) {
	c := New()
	for i := 0; i < 256; i++ {
		_, err := c.AddConstant(value.Number(float64(i)))
		require.NoError(t, err)
	}
	_, err := c.AddConstant(value.Number(256))
	require.Error(t, err)
}

func TestLineAtOnEmptyChunk(t *testing.T) {
	c := New()
	require.Equal(t, int32(0), c.LineAt(0))
}
