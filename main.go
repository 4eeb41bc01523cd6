package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/DedS3t/monopoly-board-client/app/controllers"
	"github.com/DedS3t/monopoly-board-client/app/models"
	"github.com/DedS3t/monopoly-board-client/app/render"
	"github.com/DedS3t/monopoly-board-client/app/session"
	"github.com/DedS3t/monopoly-board-client/pkg/routes"
	"github.com/DedS3t/monopoly-board-client/platform/board"
	"github.com/DedS3t/monopoly-board-client/platform/cache"
	"github.com/DedS3t/monopoly-board-client/platform/logging"
	"github.com/DedS3t/monopoly-board-client/platform/sse"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	logging.Init()

	join := flag.String("join", "", "feed URL to join as a headless client instead of serving")
	player := flag.Int("player", 1, "local player id when joining")
	buyURL := flag.String("buy", "", "buy endpoint for the headless client")
	flag.Parse()

	properties, err := board.LoadProperties("platform/board/properties.json")
	if err != nil {
		logrus.WithError(err).Fatal("board data missing")
	}

	if *join != "" {
		runClient(*join, *buyURL, *player, properties)
		return
	}

	app := fiber.New()
	app.Use(cors.New())

	pool := cache.CreateRedisPool()
	defer pool.Close()

	controllers.InitFeed(pool, properties)
	routes.GameRoutes(app)

	addr := os.Getenv("FEED_ADDR")
	if addr == "" {
		addr = ":4101"
	}
	logrus.WithField("addr", addr).Info("feed service listening")
	if err := app.Listen(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func runClient(feedURL string, buyURL string, player int, properties []models.Property) {
	client, err := sse.Dial(context.Background(), feedURL)
	if err != nil {
		logrus.WithError(err).Fatal("feed dial failed")
	}

	started := make(chan models.GameStartPayload, 1)
	client.On(models.EventGameStart, func(data []byte) {
		var payload models.GameStartPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			logrus.WithError(err).Warn("bad gameStart payload")
			return
		}
		select {
		case started <- payload:
		default:
		}
	})

	var payload models.GameStartPayload
	select {
	case payload = <-started:
	case <-client.Done():
		logrus.Fatal("feed closed before gameStart")
	case <-time.After(30 * time.Second):
		logrus.Fatal("no gameStart within 30s")
	}
	client.Off(models.EventGameStart)

	cfg := session.Config{
		GameID:      payload.Game_id,
		LocalPlayer: player,
		Players:     payload.Players,
		Properties:  payload.Properties,
		Cells:       properties,
		Stream:      client,
		Renderer:    render.NewBoard(payload.Players, render.NewMemSurface),
		Step:        stepInterval(),
	}
	if buyURL != "" {
		cfg.Buyer = session.HTTPBuyer{URL: buyURL}
		cfg.Prompter = acceptAll{}
	}

	s := session.Start(cfg)
	<-client.Done()
	s.End()
}

func stepInterval() time.Duration {
	if ms, err := strconv.Atoi(os.Getenv("ANIM_STEP_MS")); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 0 // animator default
}

// acceptAll buys everything offered, good enough for the headless demo.
type acceptAll struct{}

func (acceptAll) OfferPurchase(prop models.Property) bool { return true }
