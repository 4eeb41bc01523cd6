package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProperties(t *testing.T) {
	properties, err := LoadProperties("properties.json")
	require.NoError(t, err)
	require.Len(t, properties, Cells)

	goCell, err := GetByPos(0, properties)
	require.NoError(t, err)
	assert.Equal(t, "Go", goCell.Name)

	boardwalk, err := GetByPos(39, properties)
	require.NoError(t, err)
	assert.Equal(t, "Boardwalk", boardwalk.Name)
	assert.True(t, boardwalk.Ownable())

	jail, err := GetByPos(JailCell, properties)
	require.NoError(t, err)
	assert.False(t, jail.Ownable())

	_, err = GetByPos(40, properties)
	assert.Error(t, err)

	// 22 streets, 4 railroads, 2 utilities
	assert.Len(t, OwnablePositions(properties), 28)
}

func TestCellPointCorners(t *testing.T) {
	cases := []struct {
		name string
		pos  int
		x, y int
	}{
		{"go is bottom-right", 0, 728, 728},
		{"jail is bottom-left", 10, 8, 728},
		{"free parking is top-left", 20, 0, 8},
		{"go to jail is top-right", 30, 720, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := CellPoint(tc.pos)
			assert.Equal(t, tc.x, x)
			assert.Equal(t, tc.y, y)
		})
	}
}

func TestCellPointStaysOnBoard(t *testing.T) {
	seen := make(map[[2]int]bool)
	for pos := 0; pos < Cells; pos++ {
		x, y := CellPoint(pos)
		assert.GreaterOrEqual(t, x, 0)
		assert.GreaterOrEqual(t, y, 0)
		assert.Less(t, x, Pixels)
		assert.Less(t, y, Pixels)
		key := [2]int{x, y}
		assert.False(t, seen[key], "positions %v collide at %v", pos, key)
		seen[key] = true
	}
	// wraps like the token does
	x, y := CellPoint(Cells + 3)
	wx, wy := CellPoint(3)
	assert.Equal(t, wx, x)
	assert.Equal(t, wy, y)
}
