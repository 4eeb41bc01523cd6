package routes

import (
	"github.com/DedS3t/monopoly-board-client/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(a *fiber.App) {
	route := a.Group("/game")
	route.Get("/feed", controllers.Feed)
	route.Post("/buy", controllers.Buy)
	route.Post("/demo", controllers.Demo)
}
