package render

import (
	"fmt"
	"sync"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/board"
)

// Surface is one drawing layer of the stacked board. Each layer is
// addressable on its own so a single token redraws without touching
// the rest of the board.
type Surface interface {
	Draw(symbol string, x int, y int)
	Clear()
}

// Board composites the fixed layer stack: background, buildings, one
// layer per player, info on top.
type Board struct {
	background Surface
	buildings  Surface
	tokens     map[int]Surface
	info       Surface
	symbols    map[int]string
	order      []Surface
}

func NewBoard(players []models.PlayerInfo, factory func(name string) Surface) *Board {
	b := &Board{
		background: factory("background"),
		buildings:  factory("buildings"),
		tokens:     make(map[int]Surface),
		symbols:    make(map[int]string),
	}
	b.order = append(b.order, b.background, b.buildings)
	for _, player := range players {
		layer := factory(fmt.Sprintf("player-%d", player.Id))
		b.tokens[player.Id] = layer
		b.symbols[player.Id] = player.Symbol
		b.order = append(b.order, layer)
	}
	b.info = factory("info")
	b.order = append(b.order, b.info)

	b.background.Draw("board", 0, 0)
	return b
}

// Layers returns the stack bottom-up, the order a compositor paints in.
func (b *Board) Layers() []Surface {
	return b.order
}

// DrawToken redraws one player's token at the given board cell.
func (b *Board) DrawToken(playerID int, pos int) {
	layer, ok := b.tokens[playerID]
	if !ok {
		return
	}
	x, y := board.CellPoint(pos)
	layer.Clear()
	layer.Draw(b.symbols[playerID], x, y)
}

// DrawBuildings repaints the whole building overlay from the counts.
func (b *Board) DrawBuildings(counts map[int]models.Building) {
	b.buildings.Clear()
	for pos, building := range counts {
		x, y := board.CellPoint(pos)
		if building.Hotels > 0 {
			b.buildings.Draw(fmt.Sprintf("hotel:%d", building.Hotels), x, y)
		} else if building.Houses > 0 {
			b.buildings.Draw(fmt.Sprintf("house:%d", building.Houses), x, y)
		}
	}
}

// Info replaces the top banner, used for turn announcements.
func (b *Board) Info(text string) {
	b.info.Clear()
	b.info.Draw(text, 0, 0)
}

// MemSurface is an in-memory Surface used by tests and the headless
// demo client.
type MemSurface struct {
	mu    sync.Mutex
	name  string
	marks map[[2]int]string
}

func NewMemSurface(name string) Surface {
	return &MemSurface{name: name, marks: make(map[[2]int]string)}
}

func (s *MemSurface) Draw(symbol string, x int, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[[2]int{x, y}] = symbol
}

func (s *MemSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = make(map[[2]int]string)
}

// Marks copies out the current layer contents.
func (s *MemSurface) Marks() map[[2]int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[[2]int]string, len(s.marks))
	for k, v := range s.marks {
		out[k] = v
	}
	return out
}
