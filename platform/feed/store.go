package feed

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/cache"
	"github.com/gomodule/redigo/redis"
)

// Redis key schema, one game per id:
//   <game>            current-turn player id
//   <game>.order      list of player ids in turn order
//   <game>.<id>       hash name/bal/pos/jailed per player
//   <game>.props      hash position -> owner id
//   <game>.buildings  hash position -> building counts json
//   <game>.winner     set when the game is over

func itoa(n int) string {
	return strconv.Itoa(n)
}

func playerKey(game string, id int) string {
	return fmt.Sprintf("%s.%d", game, id)
}

func CreateGame(game string, players []models.PlayerInfo, conn *redis.Conn) error {
	var ids []interface{}
	for _, player := range players {
		key := playerKey(game, player.Id)
		if err := cache.HSET(key, "name", player.Username, conn); err != nil {
			return err
		}
		cache.HSET(key, "bal", 1500, conn)
		cache.HSET(key, "pos", 0, conn)
		cache.HSET(key, "jailed", "false", conn)
		ids = append(ids, player.Id)
	}
	return cache.RPUSH(fmt.Sprintf("%s.order", game), ids, conn)
}

func SetTurn(game string, id int, conn *redis.Conn) error {
	return cache.Set(game, id, conn)
}

func SetPosition(game string, id int, pos int, conn *redis.Conn) error {
	return cache.HSET(playerKey(game, id), "pos", pos, conn)
}

func SetJailed(game string, id int, jailed bool, conn *redis.Conn) error {
	return cache.HSET(playerKey(game, id), "jailed", strconv.FormatBool(jailed), conn)
}

func AdjustBalance(game string, id int, delta int, conn *redis.Conn) (int, error) {
	return cache.HINCRBY(playerKey(game, id), "bal", delta, conn)
}

// SetOwner records an ownership transfer; owner < 0 clears it.
func SetOwner(game string, pos int, owner int, conn *redis.Conn) error {
	if owner < 0 {
		return cache.HDEL(fmt.Sprintf("%s.props", game), itoa(pos), conn)
	}
	return cache.HSET(fmt.Sprintf("%s.props", game), itoa(pos), owner, conn)
}

func GetOwner(game string, pos int, conn *redis.Conn) (int, bool) {
	val, err := cache.HGET(fmt.Sprintf("%s.props", game), itoa(pos), conn)
	if err != nil {
		return 0, false
	}
	owner, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return owner, true
}

func SetBuilding(game string, pos int, building models.Building, conn *redis.Conn) error {
	raw, err := json.Marshal(building)
	if err != nil {
		return err
	}
	return cache.HSET(fmt.Sprintf("%s.buildings", game), itoa(pos), string(raw), conn)
}

func EndGame(game string, winner int, conn *redis.Conn) error {
	return cache.Set(fmt.Sprintf("%s.winner", game), winner, conn)
}

func GameExists(game string, conn *redis.Conn) bool {
	order, err := cache.LGET(fmt.Sprintf("%s.order", game), conn)
	return err == nil && len(order) > 0
}

// Cleanup drops every key the game wrote.
func Cleanup(game string, conn *redis.Conn) {
	order, _ := cache.LGET(fmt.Sprintf("%s.order", game), conn)
	for _, raw := range order {
		if id, err := strconv.Atoi(raw); err == nil {
			cache.Del(playerKey(game, id), conn)
		}
	}
	cache.Del(game, conn)
	cache.Del(fmt.Sprintf("%s.order", game), conn)
	cache.Del(fmt.Sprintf("%s.props", game), conn)
	cache.Del(fmt.Sprintf("%s.buildings", game), conn)
	cache.Del(fmt.Sprintf("%s.winner", game), conn)
}

// LoadSnapshot reads the whole game state in one pass.
func LoadSnapshot(game string, conn *redis.Conn) (Snapshot, error) {
	snap := EmptySnapshot()

	order, err := cache.LGET(fmt.Sprintf("%s.order", game), conn)
	if err != nil {
		return snap, err
	}
	for _, raw := range order {
		id, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		fields, err := cache.HGETALL(playerKey(game, id), conn)
		if err != nil {
			return snap, err
		}
		state := PlayerState{Name: fields["name"], Jailed: fields["jailed"] == "true"}
		state.Pos, _ = strconv.Atoi(fields["pos"])
		state.Bal, _ = strconv.Atoi(fields["bal"])
		snap.Players[id] = state
	}

	if val, err := cache.Get(game, conn); err == nil {
		if turn, err := strconv.Atoi(val); err == nil {
			snap.Turn = turn
		}
	}

	props, _ := cache.HGETALL(fmt.Sprintf("%s.props", game), conn)
	for field, val := range props {
		pos, err1 := strconv.Atoi(field)
		owner, err2 := strconv.Atoi(val)
		if err1 == nil && err2 == nil {
			snap.Owners[pos] = owner
		}
	}

	buildings, _ := cache.HGETALL(fmt.Sprintf("%s.buildings", game), conn)
	for field, val := range buildings {
		pos, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		var building models.Building
		if json.Unmarshal([]byte(val), &building) == nil {
			snap.Buildings[pos] = building
		}
	}

	if val, err := cache.Get(fmt.Sprintf("%s.winner", game), conn); err == nil {
		if winner, err := strconv.Atoi(val); err == nil {
			snap.Over = true
			snap.Winner = winner
		}
	}
	return snap, nil
}
