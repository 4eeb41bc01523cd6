package controllers

import (
	"bufio"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/pkg"
	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/DedS3t/monopoly-board-client/platform/feed"
	ginsse "github.com/gin-contrib/sse"
	"github.com/gofiber/fiber/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var (
	pool      *redis.Pool
	cells     []models.Property
	positions []int

	watchersMu sync.Mutex
	watchers   = map[string]*feed.Watcher{}
)

func InitFeed(p *redis.Pool, properties []models.Property) {
	pool = p
	cells = properties
	positions = board.OwnablePositions(properties)
}

func pollInterval() time.Duration {
	if ms, err := strconv.Atoi(os.Getenv("FEED_POLL_MS")); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 500 * time.Millisecond
}

func demoPace() time.Duration {
	if ms, err := strconv.Atoi(os.Getenv("DEMO_PACE_MS")); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 2 * time.Second
}

func ensureWatcher(game string) *feed.Watcher {
	watchersMu.Lock()
	defer watchersMu.Unlock()
	if w, ok := watchers[game]; ok {
		return w
	}
	w := feed.NewWatcher(game, pool, pollInterval(), positions)
	watchers[game] = w
	go reapWatcher(game, w)
	return w
}

// reapWatcher waits for the watcher to stop (the game ended or someone
// called Stop), drops it from the map and clears the game's keys.
func reapWatcher(game string, w *feed.Watcher) {
	<-w.Done()
	watchersMu.Lock()
	if watchers[game] == w {
		delete(watchers, game)
	}
	watchersMu.Unlock()

	conn := pool.Get()
	defer conn.Close()
	feed.Cleanup(game, &conn)
	logrus.WithField("game_id", game).Info("game feed reaped")
}

// Feed streams a game's events as SSE until the client disconnects.
func Feed(c *fiber.Ctx) error {
	game := c.Query("game")
	if game == "" {
		return c.Status(fiber.StatusBadRequest).SendString("game query parameter required")
	}
	conn := pool.Get()
	exists := feed.GameExists(game, &conn)
	conn.Close()
	if !exists {
		return c.Status(fiber.StatusNotFound).SendString("unknown game")
	}

	w := ensureWatcher(game)
	id, events := w.Subscribe()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(bw *bufio.Writer) {
		defer w.Unsubscribe(id)
		for event := range events {
			if err := ginsse.Encode(bw, ginsse.Event{Event: event.Name, Data: event.Data}); err != nil {
				return
			}
			if err := bw.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

type buyDto struct {
	Game_id  string `json:"game_id"`
	User_id  int    `json:"user_id"`
	Position int    `json:"position"`
}

// Buy records a property purchase: deduct the price, set the owner.
// The feed watcher pushes the resulting balance and ownership events.
func Buy(c *fiber.Ctx) error {
	dto := new(buyDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	conn := pool.Get()
	defer conn.Close()

	if !feed.GameExists(dto.Game_id, &conn) {
		return c.Status(fiber.StatusNotFound).SendString("unknown game")
	}
	property, err := board.GetByPos(dto.Position, cells)
	if err != nil || !property.Ownable() {
		return c.Status(fiber.StatusBadRequest).SendString("position is not ownable")
	}
	if _, owned := feed.GetOwner(dto.Game_id, dto.Position, &conn); owned {
		return c.Status(fiber.StatusConflict).SendString("property already owned")
	}
	if _, err := feed.AdjustBalance(dto.Game_id, dto.User_id, -property.Price, &conn); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if err := feed.SetOwner(dto.Game_id, dto.Position, dto.User_id, &conn); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Demo seeds a scripted two-player game and returns its id.
func Demo(c *fiber.Ctx) error {
	game := models.Game{Id: pkg.RandString(8), Name: "Scripted demo", Status: "in progress"}
	players := []models.PlayerInfo{
		{Id: 1, Username: "Alice", Symbol: "A"},
		{Id: 2, Username: "Bob", Symbol: "B"},
	}

	conn := pool.Get()
	err := feed.CreateGame(game.Id, players, &conn)
	conn.Close()
	if err != nil {
		logrus.WithError(err).Error("demo game creation failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	ensureWatcher(game.Id)
	go feed.RunScript(game.Id, pool, demoPace())
	return c.JSON(game)
}
