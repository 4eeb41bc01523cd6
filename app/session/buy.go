package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type buyDto struct {
	Game_id  string `json:"game_id"`
	User_id  int    `json:"user_id"`
	Position int    `json:"position"`
}

// HTTPBuyer posts buy-property requests to the game server.
type HTTPBuyer struct {
	URL    string
	Client *http.Client
}

func (b HTTPBuyer) Buy(gameID string, playerID int, pos int) error {
	body, err := json.Marshal(buyDto{Game_id: gameID, User_id: playerID, Position: pos})
	if err != nil {
		return err
	}
	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Post(b.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("buy request rejected: %s", resp.Status)
	}
	return nil
}
