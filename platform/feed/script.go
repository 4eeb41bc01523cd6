package feed

import (
	"math/rand"
	"time"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"
)

// RunScript drives a short canned two-player game so a client has
// something to watch: alternating rolls, a couple of purchases, a trip
// to jail and a winner. It only mutates the store; the watcher turns
// the mutations into feed events. No game rules live here.
func RunScript(game string, pool *redis.Pool, pace time.Duration) {
	if pace <= 0 {
		pace = 2 * time.Second
	}
	conn := pool.Get()
	defer conn.Close()

	log := logrus.WithField("game_id", game)
	log.Info("demo script started")

	players := []int{1, 2}
	positions := map[int]int{1: 0, 2: 0}
	purchases := map[int]int{1: 1, 2: 3} // positions bought on the first pass

	step := func() { time.Sleep(pace) }

	SetTurn(game, players[0], &conn)
	step()

	for round := 0; round < 4; round++ {
		for _, id := range players {
			roll := rand.Intn(11) + 2 // two dice
			positions[id] = (positions[id] + roll) % board.Cells
			SetPosition(game, id, positions[id], &conn)
			step()

			if round == 0 {
				pos := purchases[id]
				positions[id] = pos
				SetPosition(game, id, pos, &conn)
				step()
				SetOwner(game, pos, id, &conn)
				AdjustBalance(game, id, -60, &conn)
				step()
			}

			if round == 2 && id == players[1] {
				SetJailed(game, id, true, &conn)
				SetPosition(game, id, board.JailCell, &conn)
				step()
				SetJailed(game, id, false, &conn)
				AdjustBalance(game, id, -50, &conn)
				step()
			}

			next := players[0]
			if id == players[0] {
				next = players[1]
			}
			SetTurn(game, next, &conn)
			step()
		}

		if round == 1 {
			SetBuilding(game, purchases[1], models.Building{Houses: 2}, &conn)
			step()
		}
	}

	EndGame(game, players[0], &conn)
	log.Info("demo script finished")
}
