package feed

import (
	"testing"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapWith(players map[int]PlayerState) Snapshot {
	snap := EmptySnapshot()
	for id, state := range players {
		snap.Players[id] = state
	}
	return snap
}

func TestDiffMoves(t *testing.T) {
	old := map[int]PlayerState{5: {Pos: 4}, 8: {Pos: 0}}
	new := map[int]PlayerState{5: {Pos: 4}, 8: {Pos: 4}}

	steps := DiffMoves(old, new)
	require.Len(t, steps, 1)
	assert.Equal(t, models.MoveStep{Player_id: 8, New_pos: 4, Old_pos: 0}, steps[0])
}

func TestDiffMovesSkipsInitialTokensAtGo(t *testing.T) {
	new := map[int]PlayerState{1: {Pos: 0}, 2: {Pos: 0}}
	assert.Empty(t, DiffMoves(map[int]PlayerState{}, new))
}

func TestDiffMovesLeavingJailReportsSentinel(t *testing.T) {
	old := map[int]PlayerState{1: {Pos: board.JailCell, Jailed: true}}
	new := map[int]PlayerState{1: {Pos: 15}}

	steps := DiffMoves(old, new)
	require.Len(t, steps, 1)
	assert.Equal(t, board.JailSentinel, steps[0].Old_pos)
	assert.Equal(t, 15, steps[0].New_pos)
	assert.False(t, steps[0].Jailed)
}

func TestDiffBalances(t *testing.T) {
	old := map[int]PlayerState{5: {Bal: 200}, 6: {Bal: 200}, 8: {Bal: 200}}
	new := map[int]PlayerState{5: {Bal: 200}, 6: {Bal: 200}, 8: {Bal: 400}}

	changes := DiffBalances(old, new)
	require.Len(t, changes, 1)
	assert.Equal(t, models.BalanceChange{Player_id: 8, Balance: 400, Change: 200}, changes[0])
}

func TestDiffBalancesFirstSnapshotEmitsEverything(t *testing.T) {
	new := map[int]PlayerState{5: {Bal: 1500}, 6: {Bal: 1500}}
	changes := DiffBalances(map[int]PlayerState{}, new)
	require.Len(t, changes, 2)
	assert.Equal(t, 1500, changes[0].Balance)
}

func TestDiffOwners(t *testing.T) {
	cases := []struct {
		name     string
		old, new map[int]int
		want     models.OwnerChange
	}{
		{
			name: "transfer",
			old:  map[int]int{4: 1, 5: 8},
			new:  map[int]int{4: 3, 5: 8},
			want: models.OwnerChange{
				Property: models.PropertyRef{Position: 4},
				OldOwner: &models.OwnerRef{Id: 1},
				NewOwner: &models.OwnerRef{Id: 3},
			},
		},
		{
			name: "newly owned",
			old:  map[int]int{5: 8},
			new:  map[int]int{4: 3, 5: 8},
			want: models.OwnerChange{
				Property: models.PropertyRef{Position: 4},
				NewOwner: &models.OwnerRef{Id: 3},
			},
		},
		{
			name: "became unowned",
			old:  map[int]int{4: 3, 5: 8},
			new:  map[int]int{5: 8},
			want: models.OwnerChange{
				Property: models.PropertyRef{Position: 4},
				OldOwner: &models.OwnerRef{Id: 3},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			old := EmptySnapshot()
			old.Owners = tc.old
			new := EmptySnapshot()
			new.Owners = tc.new

			changes := DiffOwners(old, new)
			require.Len(t, changes, 1)
			assert.Equal(t, tc.want, changes[0])
		})
	}
}

func TestDiffBuildings(t *testing.T) {
	old := map[int]models.Building{3: {Houses: 1}}
	new := map[int]models.Building{3: {Houses: 2}, 6: {Hotels: 1}}

	counts := DiffBuildings(old, new)
	require.Len(t, counts, 2)
	assert.Equal(t, models.Building{Houses: 2}, counts["3"])
	assert.Equal(t, models.Building{Hotels: 1}, counts["6"])
}

func TestDiffEmitsTurnAndGameEnd(t *testing.T) {
	old := snapWith(map[int]PlayerState{1: {Name: "Alice"}, 2: {Name: "Bob"}})
	new := snapWith(map[int]PlayerState{1: {Name: "Alice"}, 2: {Name: "Bob"}})
	new.Turn = 2
	new.Over = true
	new.Winner = 1

	events := Diff(old, new)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventPlayerTurn, events[0].Name)
	assert.Equal(t, models.TurnPayload{Player_id: 2}, events[0].Data)
	assert.Equal(t, models.EventGameEnd, events[1].Name)
	assert.Equal(t, models.GameEndPayload{Winner: models.OwnerRef{Id: 1, Name: "Alice"}}, events[1].Data)
}

func TestDiffQuiescentStateEmitsNothing(t *testing.T) {
	snap := snapWith(map[int]PlayerState{1: {Name: "Alice", Pos: 7, Bal: 1200}})
	snap.Turn = 1
	snap.Owners[3] = 1
	assert.Empty(t, Diff(snap, snap))
}

func TestDiffJailed(t *testing.T) {
	old := map[int]PlayerState{1: {}, 2: {}}
	new := map[int]PlayerState{1: {}, 2: {Jailed: true}}

	payloads := DiffJailed(old, new)
	require.Len(t, payloads, 1)
	assert.Equal(t, models.JailedPayload{Player_id: 2, Jailed: true}, payloads[0])

	back := DiffJailed(new, old)
	require.Len(t, back, 1)
	assert.False(t, back[0].Jailed)
}
