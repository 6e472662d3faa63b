package onyx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxchain/onyx/model/onyx"
)

func TestBodyIndices(t *testing.T) {
	indices := onyx.BlockBodyIndices{FirstTxNum: 20, TxCount: 4}

	assert.Equal(t, uint64(24), indices.NextTxNum())
	assert.Equal(t, uint64(23), indices.LastTxNum())
	assert.False(t, indices.Contains(19))
	assert.True(t, indices.Contains(20))
	assert.True(t, indices.Contains(23))
	assert.False(t, indices.Contains(24))
}

func TestBodyIndicesEmptyBlock(t *testing.T) {
	indices := onyx.BlockBodyIndices{FirstTxNum: 7, TxCount: 0}

	assert.Equal(t, uint64(7), indices.NextTxNum())
	assert.Equal(t, uint64(7), indices.LastTxNum())
	assert.False(t, indices.Contains(7))
}

func TestHeaderID(t *testing.T) {
	header := &onyx.Header{Number: 3, Timestamp: 42}

	// Content-addressed: same fields, same ID; any field change, new ID.
	same := &onyx.Header{Number: 3, Timestamp: 42}
	require.Equal(t, header.ID(), same.ID())

	other := &onyx.Header{Number: 4, Timestamp: 42}
	require.NotEqual(t, header.ID(), other.ID())
}

func TestRangeBind(t *testing.T) {
	r := onyx.OpenRange(3).Bind(9)
	end, closed := r.End()
	require.True(t, closed)
	assert.Equal(t, uint64(3), r.Start())
	assert.Equal(t, uint64(9), end)
	assert.Equal(t, uint64(7), r.Len())

	assert.True(t, onyx.NewRange(5, 4).Empty())
	assert.False(t, onyx.OpenRange(5).Empty())
}
