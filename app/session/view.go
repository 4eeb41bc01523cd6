package session

import (
	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/sirupsen/logrus"
)

// View receives the user-facing state changes the board surfaces don't
// show: the ownership summary, turn banner, balances and the game-over
// hand-off.
type View interface {
	OwnershipChanged(prop models.PropertyRef, oldOwner string, newOwner string)
	TurnChanged(playerID int, name string)
	BalanceChanged(playerID int, balance int, change int)
	GameOver(winner models.OwnerRef)
}

// LogView is the headless default.
type LogView struct{}

func (LogView) OwnershipChanged(prop models.PropertyRef, oldOwner string, newOwner string) {
	logrus.WithFields(logrus.Fields{
		"property":  prop.Name,
		"position":  prop.Position,
		"old_owner": oldOwner,
		"new_owner": newOwner,
	}).Info("ownership changed")
}

func (LogView) TurnChanged(playerID int, name string) {
	logrus.WithFields(logrus.Fields{"player_id": playerID, "username": name}).Info("turn changed")
}

func (LogView) BalanceChanged(playerID int, balance int, change int) {
	logrus.WithFields(logrus.Fields{"player_id": playerID, "balance": balance, "change": change}).Info("balance changed")
}

func (LogView) GameOver(winner models.OwnerRef) {
	logrus.WithField("winner", winner.Name).Info("game over")
}
