package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chessweb/chess-backend/internal/model"
	"github.com/chessweb/chess-backend/internal/service"
	"github.com/chessweb/chess-backend/internal/store"
)

// GameController exposes the game operations over HTTP. It only parses and
// relays; all chess law lives in the model.
type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type moveRequest struct {
	From           []int  `json:"from"`
	To             []int  `json:"to"`
	PromotionPiece string `json:"promotion_piece"`
}

type legalMovesRequest struct {
	Position []int `json:"position"`
}

type resignRequest struct {
	Color string `json:"color"`
}

func parsePosition(coords []int) (model.Position, bool) {
	if len(coords) != 2 {
		return model.Position{}, false
	}
	return model.Position{Row: coords[0], Col: coords[1]}, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNoStore):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	snap, err := gc.gameService.CreateGame()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "New game started",
		"game_state": snap,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	snap, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	var req legalMovesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request payload"})
	}
	pos, ok := parsePosition(req.Position)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid position"})
	}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), pos)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"legal_moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid move payload"})
	}
	from, okFrom := parsePosition(req.From)
	to, okTo := parsePosition(req.To)
	if !okFrom || !okTo {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid move format"})
	}

	gameID := c.Params("gameId")
	result, err := gc.gameService.MakeMove(gameID, from, to, model.PieceType(req.PromotionPiece))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return gc.withState(c, gameID, fiber.Map{"result": result})
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	result, err := gc.gameService.Undo(gameID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return gc.withState(c, gameID, fiber.Map{"result": result})
}

func (gc *GameController) AIMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	result, err := gc.gameService.MakeAIMove(gameID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return gc.withState(c, gameID, fiber.Map{"result": result})
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	var req resignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request payload"})
	}
	color := model.Color(req.Color)
	if color != model.White && color != model.Black {
		color = model.White
	}

	gameID := c.Params("gameId")
	result, err := gc.gameService.Resign(gameID, color)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return gc.withState(c, gameID, fiber.Map{"result": result})
}

func (gc *GameController) Replay(c *fiber.Ctx) error {
	states, err := gc.gameService.Replay(c.Params("gameId"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"states":  states,
	})
}

func (gc *GameController) SaveGame(c *fiber.Ctx) error {
	if err := gc.gameService.SaveGame(c.Params("gameId")); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Game saved",
	})
}

func (gc *GameController) LoadGame(c *fiber.Ctx) error {
	snap, err := gc.gameService.LoadGame(c.Params("gameId"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Game loaded",
		"game_state": snap,
	})
}

func (gc *GameController) ListSaved(c *fiber.Ctx) error {
	games, err := gc.gameService.ListSaved()
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"games":   games,
	})
}

func (gc *GameController) Records(c *fiber.Ctx) error {
	stats, err := gc.gameService.Stats()
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"records": stats,
	})
}

func (gc *GameController) withState(c *fiber.Ctx, gameID string, payload fiber.Map) error {
	if snap, err := gc.gameService.GetGameState(gameID); err == nil {
		payload["game_state"] = snap
	}
	return c.JSON(payload)
}
