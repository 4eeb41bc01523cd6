package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-board-client/app/animate"
	"github.com/DedS3t/monopoly-board-client/app/dispatch"
	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/sirupsen/logrus"
)

// Buyer issues the outbound buy-property request to the game server.
type Buyer interface {
	Buy(gameID string, playerID int, pos int) error
}

// Prompter surfaces the purchase affordance to the local user and
// reports whether they accepted. It may block; the session calls it
// off the event path.
type Prompter interface {
	OfferPurchase(prop models.Property) bool
}

// BoardRenderer is the layered surface the session draws on.
type BoardRenderer interface {
	animate.Renderer
	DrawBuildings(counts map[int]models.Building)
	Info(text string)
}

type Config struct {
	GameID      string
	LocalPlayer int
	Players     []models.PlayerInfo
	Properties  []int // positions the ownership map tracks
	Cells       []models.Property
	Stream      dispatch.Stream
	Renderer    BoardRenderer
	Step        time.Duration
	Buyer       Buyer
	Prompter    Prompter
	View        View
}

// Session owns all per-game mutable state: token positions (via the
// animator), balances, jail status, turn, the ownership map and
// building counts. It is constructed when the board is first shown and
// disposed on gameEnd. Handlers and animation ticks mutate shared
// state from different goroutines, so everything goes through s.mu.
type Session struct {
	mu        sync.Mutex
	game      string
	local     int
	names     map[int]string
	owners    map[int]*int
	balances  map[int]int
	jailed    map[int]bool
	buildings map[int]models.Building
	turn      int
	over      bool

	cells map[int]models.Property

	anim     *animate.Animator
	disp     *dispatch.Dispatcher
	renderer BoardRenderer
	buyer    Buyer
	prompt   Prompter
	view     View
	log      *logrus.Entry
}

// Start builds the session state from the game-start player list and
// subscribes the full handler table on the stream.
func Start(cfg Config) *Session {
	s := &Session{
		game:      cfg.GameID,
		local:     cfg.LocalPlayer,
		names:     make(map[int]string),
		owners:    make(map[int]*int),
		balances:  make(map[int]int),
		jailed:    make(map[int]bool),
		buildings: make(map[int]models.Building),
		turn:      -1,
		cells:     make(map[int]models.Property),
		renderer:  cfg.Renderer,
		buyer:     cfg.Buyer,
		prompt:    cfg.Prompter,
		view:      cfg.View,
		log:       logrus.WithField("game_id", cfg.GameID),
	}
	if s.view == nil {
		s.view = LogView{}
	}
	for _, player := range cfg.Players {
		s.names[player.Id] = player.Username
	}
	for _, pos := range cfg.Properties {
		s.owners[pos] = nil
	}
	for _, cell := range cfg.Cells {
		s.cells[cell.Position] = cell
	}

	s.anim = animate.New(cfg.Renderer, cfg.Step)
	for _, player := range cfg.Players {
		s.anim.Track(player.Id, 0)
	}

	s.disp = dispatch.New(cfg.Stream, dispatch.Table{
		models.EventPlayerMove:      s.handleMove,
		models.EventPlayerTurn:      s.handleTurn,
		models.EventPlayerBalance:   s.handleBalance,
		models.EventPlayerJailed:    s.handleJailed,
		models.EventOwnerChanges:    s.handleOwnerChanges,
		models.EventPlayerBuildings: s.handleBuildings,
		models.EventGameEnd:         s.handleGameEnd,
	})
	s.disp.SubscribeAll()
	s.log.WithField("players", len(cfg.Players)).Info("game session started")
	return s
}

// End removes every handler the session registered and stops all
// animation. Safe to call more than once; gameEnd calls it too.
func (s *Session) End() {
	s.disp.UnsubscribeAll()
	s.anim.Stop()
	s.mu.Lock()
	s.over = true
	s.mu.Unlock()
}

func (s *Session) handleMove(data []byte) {
	var steps []models.MoveStep
	if err := json.Unmarshal(data, &steps); err != nil {
		s.log.WithError(err).Warn("bad playerMove payload")
		return
	}
	for _, step := range steps {
		target := step.New_pos
		if step.Jailed {
			target = board.JailSentinel
		}
		s.anim.StartMove(step.Player_id, step.Old_pos, target)
		if step.Player_id == s.local && !step.Jailed {
			s.maybeOfferPurchase(target)
		}
	}
}

// maybeOfferPurchase surfaces the buy affordance when the local user
// lands on a tracked, unowned cell. The prompt waits on the user, so
// it runs off the event path.
func (s *Session) maybeOfferPurchase(pos int) {
	if s.prompt == nil || s.buyer == nil {
		return
	}
	s.mu.Lock()
	owner, tracked := s.owners[pos]
	prop, known := s.cells[pos]
	s.mu.Unlock()
	if !tracked || owner != nil {
		return
	}
	if !known {
		prop = models.Property{Position: pos}
	}
	go func() {
		if !s.prompt.OfferPurchase(prop) {
			return
		}
		if err := s.buyer.Buy(s.game, s.local, pos); err != nil {
			s.log.WithError(err).WithField("position", pos).Error("buy request failed")
		}
	}()
}

func (s *Session) handleTurn(data []byte) {
	var turn models.TurnPayload
	if err := json.Unmarshal(data, &turn); err != nil {
		s.log.WithError(err).Warn("bad playerTurn payload")
		return
	}
	s.mu.Lock()
	s.turn = turn.Player_id
	name := s.names[turn.Player_id]
	s.mu.Unlock()
	s.renderer.Info(fmt.Sprintf("%s's turn", name))
	s.view.TurnChanged(turn.Player_id, name)
}

func (s *Session) handleBalance(data []byte) {
	var changes []models.BalanceChange
	if err := json.Unmarshal(data, &changes); err != nil {
		s.log.WithError(err).Warn("bad playerBalance payload")
		return
	}
	for _, change := range changes {
		s.mu.Lock()
		s.balances[change.Player_id] = change.Balance
		s.mu.Unlock()
		s.view.BalanceChanged(change.Player_id, change.Balance, change.Change)
	}
}

func (s *Session) handleJailed(data []byte) {
	var payload models.JailedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.WithError(err).Warn("bad playerJailed payload")
		return
	}
	s.mu.Lock()
	s.jailed[payload.Player_id] = payload.Jailed
	s.mu.Unlock()
}

func (s *Session) handleOwnerChanges(data []byte) {
	var changes []models.OwnerChange
	if err := json.Unmarshal(data, &changes); err != nil {
		s.log.WithError(err).Warn("bad propertyOwnerChanges payload")
		return
	}
	// all transfers in one event apply atomically
	s.mu.Lock()
	for _, change := range changes {
		pos := change.Property.Position
		if _, tracked := s.owners[pos]; !tracked {
			continue
		}
		if change.NewOwner == nil {
			s.owners[pos] = nil
		} else {
			id := change.NewOwner.Id
			s.owners[pos] = &id
		}
	}
	s.mu.Unlock()
	for _, change := range changes {
		s.view.OwnershipChanged(change.Property, ownerName(change.OldOwner), ownerName(change.NewOwner))
	}
}

func (s *Session) handleBuildings(data []byte) {
	var wire map[string]models.Building
	if err := json.Unmarshal(data, &wire); err != nil {
		s.log.WithError(err).Warn("bad playerBuildings payload")
		return
	}
	s.mu.Lock()
	for key, building := range wire {
		pos, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		s.buildings[pos] = building
	}
	counts := make(map[int]models.Building, len(s.buildings))
	for pos, building := range s.buildings {
		counts[pos] = building
	}
	s.mu.Unlock()
	s.renderer.DrawBuildings(counts)
}

func (s *Session) handleGameEnd(data []byte) {
	var payload models.GameEndPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.WithError(err).Warn("bad gameEnd payload")
	}
	s.End()
	s.log.WithField("winner", payload.Winner.Name).Info("game over")
	s.view.GameOver(payload.Winner)
}

func ownerName(ref *models.OwnerRef) string {
	if ref == nil {
		return "unowned"
	}
	return ref.Name
}

// Position reports where a player's token currently sits.
func (s *Session) Position(playerID int) (int, bool) {
	return s.anim.Position(playerID)
}

// Animating reports whether the player's token is still moving.
func (s *Session) Animating(playerID int) bool {
	return s.anim.Animating(playerID)
}

// Owner returns the owner of a tracked position. tracked is false for
// positions outside the ownership map.
func (s *Session) Owner(pos int) (owner int, owned bool, tracked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.owners[pos]
	if !ok {
		return 0, false, false
	}
	if ref == nil {
		return 0, false, true
	}
	return *ref, true, true
}

// OwnerName renders a tracked position's owner, "unowned" when nobody
// holds it.
func (s *Session) OwnerName(pos int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.owners[pos]
	if !ok || ref == nil {
		return "unowned"
	}
	return s.names[*ref]
}

func (s *Session) Balance(playerID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[playerID]
}

func (s *Session) Jailed(playerID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jailed[playerID]
}

func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}
