package tprop

import (
	"testing"

	"github.com/dd0wney/chronograph/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCellIterOrdersByTime(t *testing.T) {
	var c TCell[string]
	c.Set(5, "five")
	c.Set(1, "one")
	c.Set(3, "three")

	got := c.Iter()
	require.Len(t, got, 3)
	assert.Equal(t, []TimeValue[string]{
		{Time: 1, Value: "one"},
		{Time: 3, Value: "three"},
		{Time: 5, Value: "five"},
	}, got)
}

func TestTCellIterWindow(t *testing.T) {
	var c TCell[int]
	c.Set(0, 0)
	c.Set(5, 5)
	c.Set(7, 7)
	c.Set(10, 10)

	got := c.IterWindow(window.New(5, 10))
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].Time)
	assert.Equal(t, int64(7), got[1].Time)
}

func TestTCellEmptyWindowYieldsNothing(t *testing.T) {
	var c TCell[int]
	c.Set(1, 1)
	c.Set(2, 2)

	assert.Empty(t, c.IterWindow(window.New(5, 5)))
	assert.False(t, c.ActiveIn(window.New(5, 5)))
}

func TestTCellActiveIn(t *testing.T) {
	var c TCell[int]
	c.Set(3, 1)

	assert.True(t, c.ActiveIn(window.New(0, 4)))
	assert.False(t, c.ActiveIn(window.New(4, 10)))
}

func TestTCellFirstIn(t *testing.T) {
	var c TCell[string]
	c.Set(5, "a")
	c.Set(6, "b")

	tv, ok := c.FirstIn(window.New(0, 10))
	require.True(t, ok)
	assert.Equal(t, int64(5), tv.Time)
	assert.Equal(t, "a", tv.Value)

	_, ok = c.FirstIn(window.New(100, 200))
	assert.False(t, ok)
}

func TestTCellDuplicateTimesRetained(t *testing.T) {
	var c TCell[int]
	c.Set(1, 10)
	c.Set(1, 20)

	assert.Equal(t, 2, c.Len())
	got := c.IterWindow(window.New(0, 2))
	require.Len(t, got, 2)
}
