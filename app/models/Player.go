package models

type PlayerInfo struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Symbol   string `json:"symbol"`
}
