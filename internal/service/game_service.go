package service

import (
	"fmt"

	"github.com/chessweb/chess-backend/internal/model"
	"github.com/chessweb/chess-backend/internal/store"
)

// GameService is the facade the controllers call into.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{gameManager: gameManager}
}

func (gs *GameService) CreateGame() (model.Snapshot, error) {
	snap, err := gs.gameManager.CreateGame()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to create game: %w", err)
	}
	return snap, nil
}

func (gs *GameService) GetGameState(gameID string) (model.Snapshot, error) {
	return gs.gameManager.GetState(gameID)
}

func (gs *GameService) MakeMove(gameID string, from, to model.Position, promotion model.PieceType) (model.MoveResult, error) {
	return gs.gameManager.MakeMove(gameID, from, to, promotion)
}

func (gs *GameService) MakeAIMove(gameID string) (model.AIMoveResult, error) {
	return gs.gameManager.MakeAIMove(gameID)
}

func (gs *GameService) LegalMoves(gameID string, pos model.Position) ([]model.Position, error) {
	return gs.gameManager.LegalMoves(gameID, pos)
}

func (gs *GameService) Undo(gameID string) (model.UndoResult, error) {
	return gs.gameManager.Undo(gameID)
}

func (gs *GameService) Resign(gameID string, color model.Color) (model.EndResult, error) {
	return gs.gameManager.Resign(gameID, color)
}

func (gs *GameService) Replay(gameID string) ([]model.Snapshot, error) {
	return gs.gameManager.Replay(gameID)
}

func (gs *GameService) SaveGame(gameID string) error {
	return gs.gameManager.SaveGame(gameID)
}

func (gs *GameService) LoadGame(gameID string) (model.Snapshot, error) {
	return gs.gameManager.LoadGame(gameID)
}

func (gs *GameService) ListSaved() ([]store.GameSummary, error) {
	return gs.gameManager.ListSaved()
}

func (gs *GameService) Stats() (*store.Stats, error) {
	return gs.gameManager.Stats()
}
