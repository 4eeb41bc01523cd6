package models

import (
	"encoding/json"
	"errors"
)

// Event names pushed over the game feed. The names are part of the wire
// protocol shared with the browser client and must not change.
const (
	EventGameStart       = "gameStart"
	EventPlayerMove      = "playerMove"
	EventPlayerTurn      = "playerTurn"
	EventPlayerBalance   = "playerBalance"
	EventPlayerJailed    = "playerJailed"
	EventOwnerChanges    = "propertyOwnerChanges"
	EventPlayerBuildings = "playerBuildings"
	EventGameEnd         = "gameEnd"
)

// MoveStep is one entry of a playerMove event. On the wire it is the
// tuple [player_id, new_pos, old_pos, jailed].
type MoveStep struct {
	Player_id int
	New_pos   int
	Old_pos   int
	Jailed    bool
}

func (m *MoveStep) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) < 3 {
		return errors.New("move tuple too short")
	}
	if err := json.Unmarshal(parts[0], &m.Player_id); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &m.New_pos); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[2], &m.Old_pos); err != nil {
		return err
	}
	if len(parts) > 3 {
		if err := json.Unmarshal(parts[3], &m.Jailed); err != nil {
			return err
		}
	}
	return nil
}

func (m MoveStep) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{m.Player_id, m.New_pos, m.Old_pos, m.Jailed})
}

type TurnPayload struct {
	Player_id int `json:"player_id"`
}

type BalanceChange struct {
	Player_id int `json:"player_id"`
	Balance   int `json:"balance"`
	Change    int `json:"change"`
}

type JailedPayload struct {
	Player_id int  `json:"player_id"`
	Jailed    bool `json:"jailed"`
}

type PropertyRef struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

type OwnerRef struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// OwnerChange carries one ownership transfer. A nil owner means the
// property is (or was) unowned.
type OwnerChange struct {
	Property PropertyRef `json:"property"`
	OldOwner *OwnerRef   `json:"oldOwner"`
	NewOwner *OwnerRef   `json:"newOwner"`
}

type GameStartPayload struct {
	Game_id    string       `json:"game_id"`
	Players    []PlayerInfo `json:"players"`
	Properties []int        `json:"properties"`
}

type GameEndPayload struct {
	Winner OwnerRef `json:"winner"`
}
