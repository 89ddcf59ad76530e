package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/chessweb/chess-backend/internal/controller"
	"github.com/chessweb/chess-backend/internal/middleware"
	"github.com/chessweb/chess-backend/internal/service"
	"github.com/chessweb/chess-backend/internal/store"
)

func main() {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5173",
		AllowHeaders: "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Persistence is optional; without a data dir the server runs purely
	// in memory.
	var st *store.Store
	if dataDir := os.Getenv("CHESS_DATA_DIR"); dataDir != "" {
		var err error
		st, err = store.Open(dataDir)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()
	}

	gameManager := service.NewGameManager(st)
	gameService := service.NewGameService(gameManager)
	gameController := controller.NewGameController(gameService)

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/new", gameController.CreateGame)
	gameRoutes.Get("/saved", gameController.ListSaved)
	gameRoutes.Post("/load/:gameId", gameController.LoadGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/legal-moves", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/undo", gameController.Undo)
	gameRoutes.Post("/:gameId/ai-move", gameController.AIMove)
	gameRoutes.Post("/:gameId/resign", gameController.Resign)
	gameRoutes.Get("/:gameId/replay", gameController.Replay)
	gameRoutes.Post("/:gameId/save", gameController.SaveGame)

	api.Get("/records", gameController.Records)

	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	log.Fatal(app.Listen(addr))
}
