package state

import (
	"testing"

	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmptyStateAllUnset(t *testing.T) {
	s := NewEmptyState[int](3)
	for i := 0; i < 3; i++ {
		_, ok := s.Get(i)
		assert.False(t, ok)
	}
}

func TestNewFullStateAllSet(t *testing.T) {
	s := NewFullState(3, "x")
	for i := 0; i < 3; i++ {
		v, ok := s.Get(i)
		require.True(t, ok)
		assert.Equal(t, "x", v)
	}
}

func TestNewStateFromIterWrongLengthFails(t *testing.T) {
	_, err := NewStateFromIter([]int{1, 2}, 3)
	assert.ErrorIs(t, err, gerrors.ErrStateSize)
}

func TestNewStateFromIterCorrectLength(t *testing.T) {
	s, err := NewStateFromIter([]int{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGetOutOfRangeReturnsUnset(t *testing.T) {
	s := NewFullState(2, 9)
	_, ok := s.Get(5)
	assert.False(t, ok)
}

func TestTableWithColumnIsImmutable(t *testing.T) {
	tbl := NewTable(2)
	col := NewFullState(2, 42)
	next, err := WithColumn(tbl, "weight", col)
	require.NoError(t, err)

	assert.Empty(t, tbl.Names())
	assert.Len(t, next.Names(), 1)

	got, ok := Column[int](next, "weight")
	require.True(t, ok)
	v, _ := got.Get(0)
	assert.Equal(t, 42, v)
}

func TestTableWithColumnWrongSizeFails(t *testing.T) {
	tbl := NewTable(3)
	col := NewFullState(2, 1)
	_, err := WithColumn(tbl, "bad", col)
	assert.ErrorIs(t, err, gerrors.ErrStateSize)
}

func TestColumnWrongTypeIsNotOk(t *testing.T) {
	tbl := NewTable(1)
	col := NewFullState(1, 1)
	next, err := WithColumn(tbl, "n", col)
	require.NoError(t, err)

	_, ok := Column[string](next, "n")
	assert.False(t, ok)
}

func TestAsSliceIsDefensiveCopy(t *testing.T) {
	s := NewFullState(2, 5)
	out := s.AsSlice()
	out[0] = 999
	v, _ := s.Get(0)
	assert.Equal(t, 5, v)
}
