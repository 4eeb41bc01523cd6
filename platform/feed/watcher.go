package feed

import (
	"sync"
	"time"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/gomodule/redigo/redis"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Watcher polls one game's state on a fixed interval, diffs
// consecutive snapshots and fans the resulting events out to every
// subscribed feed connection. When the game ends it pushes the final
// events and stops itself, closing every subscriber channel.
type Watcher struct {
	mu         sync.Mutex
	game       string
	load       func() (Snapshot, error)
	interval   time.Duration
	properties []int
	subs       map[string]chan Event
	last       Snapshot
	stopped    bool
	quit       chan struct{}
	stopOnce   sync.Once
	log        *logrus.Entry
}

func NewWatcher(game string, pool *redis.Pool, interval time.Duration, properties []int) *Watcher {
	return newWatcher(game, func() (Snapshot, error) {
		conn := pool.Get()
		defer conn.Close()
		return LoadSnapshot(game, &conn)
	}, interval, properties)
}

func newWatcher(game string, load func() (Snapshot, error), interval time.Duration, properties []int) *Watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	w := &Watcher{
		game:       game,
		load:       load,
		interval:   interval,
		properties: properties,
		subs:       make(map[string]chan Event),
		last:       EmptySnapshot(),
		quit:       make(chan struct{}),
		log:        logrus.WithField("game_id", game),
	}
	// first snapshot loads before anyone can subscribe, so gameStart
	// never goes out with an empty roster
	w.poll()
	go w.loop()
	return w
}

// Subscribe attaches a feed connection. The gameStart event goes out
// immediately so the client can build its session before any deltas.
// Subscribing to a stopped watcher yields gameStart and a closed
// channel.
func (w *Watcher) Subscribe() (string, <-chan Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := uuid.NewV4().String()
	ch := make(chan Event, 64)
	ch <- Event{models.EventGameStart, models.GameStartPayload{
		Game_id:    w.game,
		Players:    w.playerList(),
		Properties: w.properties,
	}}
	if w.stopped {
		close(ch)
		return id, ch
	}
	w.subs[id] = ch
	w.log.WithField("subscriber", id).Info("feed subscriber attached")
	return id, ch
}

func (w *Watcher) Unsubscribe(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ch, ok := w.subs[id]; ok {
		delete(w.subs, id)
		close(ch)
	}
}

func (w *Watcher) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

// Done closes once the watcher has stopped, by Stop or by the game
// ending.
func (w *Watcher) Done() <-chan struct{} {
	return w.quit
}

// playerList rebuilds the gameStart roster from the latest snapshot.
// Caller holds w.mu.
func (w *Watcher) playerList() []models.PlayerInfo {
	var players []models.PlayerInfo
	for _, id := range sortedIds(w.last.Players) {
		players = append(players, models.PlayerInfo{
			Id:       id,
			Username: w.last.Players[id].Name,
			Symbol:   w.last.Players[id].Name,
		})
	}
	return players
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.quit:
			w.mu.Lock()
			w.shutdownLocked()
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// shutdownLocked closes every subscriber channel, which unwinds the
// feed stream writers. Caller holds w.mu.
func (w *Watcher) shutdownLocked() {
	w.stopped = true
	for id, ch := range w.subs {
		delete(w.subs, id)
		close(ch)
	}
}

func (w *Watcher) poll() {
	snap, err := w.load()
	if err != nil {
		w.log.WithError(err).Warn("snapshot load failed")
		return
	}

	w.mu.Lock()
	events := Diff(w.last, snap)
	w.last = snap
	for _, event := range events {
		for id, ch := range w.subs {
			select {
			case ch <- event:
			default:
				// slow subscriber, drop it
				delete(w.subs, id)
				close(ch)
			}
		}
	}
	over := snap.Over && !w.stopped
	if over {
		// gameEnd is out, nothing left to watch
		w.shutdownLocked()
		w.log.Info("game over, watcher stopped")
	}
	w.mu.Unlock()
	if over {
		w.Stop()
	}
}
