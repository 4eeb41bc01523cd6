package models

type Game struct {
	Id     string
	Name   string
	Status string
}
