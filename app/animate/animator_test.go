package animate

import (
	"sync"
	"testing"
	"time"

	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/stretchr/testify/require"
)

type recordRenderer struct {
	mu    sync.Mutex
	draws map[int][]int
}

func newRecordRenderer() *recordRenderer {
	return &recordRenderer{draws: make(map[int][]int)}
}

func (r *recordRenderer) DrawToken(playerID int, pos int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws[playerID] = append(r.draws[playerID], pos)
}

func (r *recordRenderer) sequence(playerID int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.draws[playerID]))
	copy(out, r.draws[playerID])
	return out
}

func TestStepsFormula(t *testing.T) {
	for from := 0; from < board.Cells; from++ {
		for to := 0; to < board.Cells; to++ {
			want := ((to - from) + board.Cells) % board.Cells
			require.Equal(t, want, Steps(from, to), "from=%d to=%d", from, to)
		}
		require.Equal(t, 1, Steps(from, board.JailSentinel))
	}
}

func TestMoveReachesTargetAndStops(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 2*time.Millisecond)
	defer a.Stop()
	a.Track(1, 0)

	a.StartMove(1, 0, 5)
	require.Eventually(t, func() bool {
		pos, ok := a.Position(1)
		return ok && pos == 5 && !a.Animating(1)
	}, time.Second, time.Millisecond)

	// no further movement without a new StartMove
	time.Sleep(20 * time.Millisecond)
	pos, _ := a.Position(1)
	require.Equal(t, 5, pos)

	seq := r.sequence(1)
	require.Equal(t, []int{0, 0, 1, 2, 3, 4, 5}, seq)
}

func TestWrapAroundPassesGo(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 2*time.Millisecond)
	defer a.Stop()
	a.Track(1, 38)

	a.StartMove(1, 38, 2)
	require.Eventually(t, func() bool {
		pos, _ := a.Position(1)
		return pos == 2 && !a.Animating(1)
	}, time.Second, time.Millisecond)

	seq := r.sequence(1)
	require.Equal(t, []int{38, 38, 39, 0, 1, 2}, seq)
}

func TestJailTargetResolvesInOneTick(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 2*time.Millisecond)
	defer a.Stop()
	a.Track(1, 25)

	a.StartMove(1, 25, board.JailSentinel)
	require.Eventually(t, func() bool {
		pos, _ := a.Position(1)
		return pos == board.JailCell && !a.Animating(1)
	}, time.Second, time.Millisecond)

	// no intermediate cells rendered on the way to jail
	require.Equal(t, []int{25, 25, board.JailCell}, r.sequence(1))
}

func TestJailDepartureEmergesFromJailCell(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 2*time.Millisecond)
	defer a.Stop()
	a.Track(1, 0)

	a.StartMove(1, board.JailSentinel, 14)
	require.Eventually(t, func() bool {
		pos, _ := a.Position(1)
		return pos == 14 && !a.Animating(1)
	}, time.Second, time.Millisecond)

	require.Equal(t, []int{0, board.JailCell, 11, 12, 13, 14}, r.sequence(1))
}

func TestPlayersAnimateIndependently(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 2*time.Millisecond)
	defer a.Stop()
	a.Track(1, 0)
	a.Track(2, 0)

	a.StartMove(1, 0, 4)
	a.StartMove(2, 0, 7)
	require.Eventually(t, func() bool {
		p1, _ := a.Position(1)
		p2, _ := a.Position(2)
		return p1 == 4 && p2 == 7 && !a.Animating(1) && !a.Animating(2)
	}, time.Second, time.Millisecond)
}

func TestDoubleStartLastWriterWins(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 5*time.Millisecond)
	defer a.Stop()
	a.Track(1, 0)

	a.StartMove(1, 0, 30)
	a.StartMove(1, 3, 8)
	require.Eventually(t, func() bool {
		pos, _ := a.Position(1)
		return pos == 8 && !a.Animating(1)
	}, time.Second, time.Millisecond)
}

func TestMoveForUntrackedPlayerIsDropped(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 2*time.Millisecond)
	defer a.Stop()

	a.StartMove(9, 0, 5)
	require.Empty(t, r.sequence(9))
	_, ok := a.Position(9)
	require.False(t, ok)
}

func TestStopCancelsRunningMove(t *testing.T) {
	r := newRecordRenderer()
	a := New(r, 5*time.Millisecond)
	a.Track(1, 0)
	a.StartMove(1, 0, 39)
	a.Stop()
	require.False(t, a.Animating(1))

	pos, _ := a.Position(1)
	time.Sleep(20 * time.Millisecond)
	after, _ := a.Position(1)
	require.Equal(t, pos, after)
}
