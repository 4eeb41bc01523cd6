package feed

import (
	"sort"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/board"
)

// Event is one named feed event before SSE encoding.
type Event struct {
	Name string
	Data interface{}
}

type PlayerState struct {
	Name   string
	Pos    int
	Bal    int
	Jailed bool
}

// Snapshot is one full read of a game's live state. The watcher diffs
// consecutive snapshots and pushes one event per kind of change, so a
// client sees exactly the deltas.
type Snapshot struct {
	Players map[int]PlayerState
	Turn    int // player id, -1 before the first turn
	Owners  map[int]int
	// Buildings maps position to house/hotel counts.
	Buildings map[int]models.Building
	Over      bool
	Winner    int
}

func EmptySnapshot() Snapshot {
	return Snapshot{
		Players:   make(map[int]PlayerState),
		Turn:      -1,
		Owners:    make(map[int]int),
		Buildings: make(map[int]models.Building),
	}
}

// Diff derives the events that move a client from old to new.
func Diff(old Snapshot, new Snapshot) []Event {
	var events []Event
	if new.Turn != old.Turn && new.Turn >= 0 {
		events = append(events, Event{models.EventPlayerTurn, models.TurnPayload{Player_id: new.Turn}})
	}
	if changes := DiffBalances(old.Players, new.Players); len(changes) > 0 {
		events = append(events, Event{models.EventPlayerBalance, changes})
	}
	if steps := DiffMoves(old.Players, new.Players); len(steps) > 0 {
		events = append(events, Event{models.EventPlayerMove, steps})
	}
	for _, payload := range DiffJailed(old.Players, new.Players) {
		events = append(events, Event{models.EventPlayerJailed, payload})
	}
	if changes := DiffOwners(old, new); len(changes) > 0 {
		events = append(events, Event{models.EventOwnerChanges, changes})
	}
	if counts := DiffBuildings(old.Buildings, new.Buildings); len(counts) > 0 {
		events = append(events, Event{models.EventPlayerBuildings, counts})
	}
	if new.Over && !old.Over {
		winner := models.OwnerRef{Id: new.Winner, Name: new.Players[new.Winner].Name}
		events = append(events, Event{models.EventGameEnd, models.GameEndPayload{Winner: winner}})
	}
	return events
}

// DiffMoves lists position changes as [id, new, old, jailed] steps. A
// player leaving jail reports the jail sentinel as its old position so
// the client animates out of the cell instead of teleporting.
func DiffMoves(old map[int]PlayerState, new map[int]PlayerState) []models.MoveStep {
	var steps []models.MoveStep
	for _, id := range sortedIds(new) {
		state := new[id]
		prev, seen := old[id]
		if seen && prev.Pos == state.Pos && prev.Jailed == state.Jailed {
			continue
		}
		if !seen && state.Pos == 0 && !state.Jailed {
			continue
		}
		step := models.MoveStep{
			Player_id: id,
			New_pos:   state.Pos,
			Old_pos:   prev.Pos,
			Jailed:    state.Jailed,
		}
		if prev.Jailed {
			step.Old_pos = board.JailSentinel
		}
		steps = append(steps, step)
	}
	return steps
}

// DiffBalances lists balance changes with the delta, every balance on
// the first snapshot.
func DiffBalances(old map[int]PlayerState, new map[int]PlayerState) []models.BalanceChange {
	var changes []models.BalanceChange
	for _, id := range sortedIds(new) {
		state := new[id]
		prev, seen := old[id]
		if seen && prev.Bal == state.Bal {
			continue
		}
		changes = append(changes, models.BalanceChange{
			Player_id: id,
			Balance:   state.Bal,
			Change:    state.Bal - prev.Bal,
		})
	}
	return changes
}

func DiffJailed(old map[int]PlayerState, new map[int]PlayerState) []models.JailedPayload {
	var payloads []models.JailedPayload
	for _, id := range sortedIds(new) {
		state := new[id]
		if prev, seen := old[id]; !seen && !state.Jailed || seen && prev.Jailed == state.Jailed {
			continue
		}
		payloads = append(payloads, models.JailedPayload{Player_id: id, Jailed: state.Jailed})
	}
	return payloads
}

// DiffOwners lists ownership transfers, including positions becoming
// unowned (nil owner).
func DiffOwners(old Snapshot, new Snapshot) []models.OwnerChange {
	seen := make(map[int]bool)
	var positions []int
	for pos := range old.Owners {
		if !seen[pos] {
			seen[pos] = true
			positions = append(positions, pos)
		}
	}
	for pos := range new.Owners {
		if !seen[pos] {
			seen[pos] = true
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)

	var changes []models.OwnerChange
	for _, pos := range positions {
		oldOwner, hadOwner := old.Owners[pos]
		newOwner, hasOwner := new.Owners[pos]
		if hadOwner == hasOwner && oldOwner == newOwner {
			continue
		}
		change := models.OwnerChange{Property: models.PropertyRef{Position: pos}}
		if hadOwner {
			change.OldOwner = &models.OwnerRef{Id: oldOwner, Name: old.Players[oldOwner].Name}
		}
		if hasOwner {
			change.NewOwner = &models.OwnerRef{Id: newOwner, Name: new.Players[newOwner].Name}
		}
		changes = append(changes, change)
	}
	return changes
}

// DiffBuildings returns the changed positions keyed the way the wire
// expects them.
func DiffBuildings(old map[int]models.Building, new map[int]models.Building) map[string]models.Building {
	counts := make(map[string]models.Building)
	for pos, building := range new {
		if old[pos] != building {
			counts[itoa(pos)] = building
		}
	}
	return counts
}

func sortedIds(players map[int]PlayerState) []int {
	ids := make([]int, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
