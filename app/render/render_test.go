package render

import (
	"testing"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers() []models.PlayerInfo {
	return []models.PlayerInfo{
		{Id: 1, Username: "Alice", Symbol: "A"},
		{Id: 2, Username: "Bob", Symbol: "B"},
	}
}

func TestLayerStackOrder(t *testing.T) {
	b := NewBoard(testPlayers(), NewMemSurface)
	layers := b.Layers()
	// background, buildings, one per player, info on top
	require.Len(t, layers, 5)

	background := layers[0].(*MemSurface)
	assert.Equal(t, "board", background.Marks()[[2]int{0, 0}])

	b.Info("Alice's turn")
	info := layers[len(layers)-1].(*MemSurface)
	assert.Equal(t, "Alice's turn", info.Marks()[[2]int{0, 0}])
}

func TestDrawTokenTouchesOnlyThatPlayersLayer(t *testing.T) {
	b := NewBoard(testPlayers(), NewMemSurface)
	layers := b.Layers()
	alice := layers[2].(*MemSurface)
	bob := layers[3].(*MemSurface)

	b.DrawToken(1, 5)
	b.DrawToken(2, 8)

	x, y := board.CellPoint(5)
	assert.Equal(t, "A", alice.Marks()[[2]int{x, y}])

	// moving Alice clears her old mark and leaves Bob alone
	b.DrawToken(1, 6)
	require.Len(t, alice.Marks(), 1)
	x, y = board.CellPoint(6)
	assert.Equal(t, "A", alice.Marks()[[2]int{x, y}])

	x, y = board.CellPoint(8)
	assert.Equal(t, "B", bob.Marks()[[2]int{x, y}])
}

func TestDrawTokenForUnknownPlayerIsIgnored(t *testing.T) {
	b := NewBoard(testPlayers(), NewMemSurface)
	b.DrawToken(9, 5) // must not panic
}

func TestDrawBuildingsRepaintsOverlay(t *testing.T) {
	b := NewBoard(testPlayers(), NewMemSurface)
	overlay := b.Layers()[1].(*MemSurface)

	b.DrawBuildings(map[int]models.Building{
		3: {Houses: 2},
		1: {Hotels: 1},
	})
	x, y := board.CellPoint(3)
	assert.Equal(t, "house:2", overlay.Marks()[[2]int{x, y}])
	x, y = board.CellPoint(1)
	assert.Equal(t, "hotel:1", overlay.Marks()[[2]int{x, y}])

	// a repaint replaces the whole overlay
	b.DrawBuildings(map[int]models.Building{3: {Houses: 3}})
	require.Len(t, overlay.Marks(), 1)
}
