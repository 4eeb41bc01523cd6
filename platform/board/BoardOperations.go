package board

import (
	"encoding/json"
	"errors"
	"io/ioutil"

	"github.com/DedS3t/monopoly-board-client/app/models"
)

const (
	// Cells numbers the board 0..39 clockwise from Go.
	Cells = 40
	// JailSentinel is the off-board position the feed uses for a player
	// sitting in jail. It never reaches the layout table.
	JailSentinel = 99
	// JailCell is the on-board cell a jailed token is drawn at.
	JailCell = 10
	// Pixels is the logical edge length of the board surface.
	Pixels = 800

	cellStep = Pixels / 11 // 11 cells per edge, corners shared
)

func LoadProperties(path string) ([]models.Property, error) {
	byteValue, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal(byteValue, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func GetByPos(pos int, properties []models.Property) (models.Property, error) { // O(N) time complexity
	for _, property := range properties {
		if property.Position == pos {
			return property, nil
		}
	}
	return models.Property{}, errors.New("not found")
}

// OwnablePositions lists the cells the ownership map tracks.
func OwnablePositions(properties []models.Property) []int {
	var positions []int
	for _, property := range properties {
		if property.Ownable() {
			positions = append(positions, property.Position)
		}
	}
	return positions
}

// CellPoint maps a board position to the top-left pixel of its cell.
// Cells run clockwise: 0-10 along the bottom edge right to left, 11-20
// up the left edge, 21-30 along the top, 31-39 down the right edge.
func CellPoint(pos int) (int, int) {
	pos = ((pos % Cells) + Cells) % Cells
	switch {
	case pos <= 10:
		return Pixels - cellStep*(pos+1), Pixels - cellStep
	case pos <= 20:
		return 0, Pixels - cellStep*(pos-9)
	case pos <= 30:
		return cellStep * (pos - 20), 0
	default:
		return Pixels - cellStep, cellStep * (pos - 30)
	}
}
