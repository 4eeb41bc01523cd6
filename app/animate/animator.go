package animate

import (
	"sync"
	"time"

	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/sirupsen/logrus"
)

// DefaultStep is the wall-clock cadence of token movement, one cell
// per step.
const DefaultStep = 500 * time.Millisecond

// Renderer redraws one player's token layer.
type Renderer interface {
	DrawToken(playerID int, pos int)
}

type token struct {
	current int
	target  int
	running bool
}

// Animator advances tokens one cell at a time on a fixed cadence.
// Each player animates on its own task, so two players moving close
// together both animate. Starting a move for a player already moving
// replaces the target (last writer wins), moves are never queued.
type Animator struct {
	mu     sync.Mutex
	step   time.Duration
	render Renderer
	tokens map[int]*token
	quit   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

func New(render Renderer, step time.Duration) *Animator {
	if step <= 0 {
		step = DefaultStep
	}
	return &Animator{
		step:   step,
		render: render,
		tokens: make(map[int]*token),
		quit:   make(chan struct{}),
	}
}

// Track registers a player's token and draws it at its starting cell.
func (a *Animator) Track(playerID int, start int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[playerID] = &token{current: start, target: start}
	a.render.DrawToken(playerID, start)
}

// Position reports where the token currently sits.
func (a *Animator) Position(playerID int) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tok, ok := a.tokens[playerID]
	if !ok {
		return 0, false
	}
	return tok.current, true
}

// Animating reports whether a move task is still running for the player.
func (a *Animator) Animating(playerID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	tok, ok := a.tokens[playerID]
	return ok && tok.running
}

// NextPosition is one forward step, wrapping past Boardwalk back to Go.
func NextPosition(current int) int {
	return (current + 1) % board.Cells
}

// Steps counts the ticks a move takes. Movement is forward only, a
// target behind the token wraps the whole way around. A jail target
// resolves in a single tick.
func Steps(from int, to int) int {
	if to == board.JailSentinel {
		return 1
	}
	return ((to-from)%board.Cells + board.Cells) % board.Cells
}

// StartMove points the player's token at a new target and arms its
// animation task. from is the position the feed says the move began
// at; the jail sentinel there means the token is leaving jail and is
// normalized onto the jail cell so the animation visibly emerges from
// it instead of teleporting.
func (a *Animator) StartMove(playerID int, from int, to int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	tok, ok := a.tokens[playerID]
	if !ok {
		logrus.WithField("player_id", playerID).Warn("move for untracked player dropped")
		return
	}
	if from == board.JailSentinel {
		from = board.JailCell
	}
	tok.current = from
	tok.target = to
	a.render.DrawToken(playerID, tok.current)
	if tok.current == tok.target {
		return
	}
	if tok.running {
		// running task picks the new target up on its next tick
		return
	}
	tok.running = true
	a.wg.Add(1)
	go a.run(playerID, tok)
}

func (a *Animator) run(playerID int, tok *token) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.step)
	defer ticker.Stop()
	for {
		select {
		case <-a.quit:
			a.mu.Lock()
			tok.running = false
			a.mu.Unlock()
			return
		case <-ticker.C:
			a.mu.Lock()
			if tok.target == board.JailSentinel {
				tok.current = board.JailCell
				tok.target = board.JailCell
				a.render.DrawToken(playerID, tok.current)
				tok.running = false
				a.mu.Unlock()
				return
			}
			tok.current = NextPosition(tok.current)
			a.render.DrawToken(playerID, tok.current)
			if tok.current == tok.target {
				tok.running = false
				a.mu.Unlock()
				return
			}
			a.mu.Unlock()
		}
	}
}

// Stop cancels every animation task and waits for them to exit. The
// animator is unusable afterwards.
func (a *Animator) Stop() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.quit)
	a.mu.Unlock()
	a.wg.Wait()
}
