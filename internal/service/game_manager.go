package service

import (
	"errors"
	"sync"
	"time"

	"github.com/chessweb/chess-backend/internal/model"
	"github.com/chessweb/chess-backend/internal/replay"
	"github.com/chessweb/chess-backend/internal/store"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNoStore      = errors.New("persistence is not configured")
)

const defaultTimeControl = 10 * time.Minute

// managedGame pairs a live game with its two clocks. All mutation of the
// game goes through the manager's lock, so each game id has exactly one
// active instance at a time.
type managedGame struct {
	game       *model.Game
	whiteClock *model.Clock
	blackClock *model.Clock
}

func (mg *managedGame) clockFor(color model.Color) *model.Clock {
	if color == model.White {
		return mg.whiteClock
	}
	return mg.blackClock
}

// GameManager owns every live game, keyed by game id.
type GameManager struct {
	games map[string]*managedGame
	store *store.Store
	mu    sync.RWMutex
}

// NewGameManager creates a manager. st may be nil when persistence is not
// configured.
func NewGameManager(st *store.Store) *GameManager {
	return &GameManager{
		games: make(map[string]*managedGame),
		store: st,
	}
}

// CreateGame starts a fresh game and returns its initial state.
func (gm *GameManager) CreateGame() (model.Snapshot, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game := model.NewGame()
	mg := &managedGame{
		game:       game,
		whiteClock: model.NewClock(defaultTimeControl),
		blackClock: model.NewClock(defaultTimeControl),
	}
	mg.whiteClock.Start()
	gm.games[game.ID()] = mg
	return game.Snapshot(), nil
}

func (gm *GameManager) get(gameID string) (*managedGame, error) {
	mg, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return mg, nil
}

// GetState returns the current snapshot of a live game.
func (gm *GameManager) GetState(gameID string) (model.Snapshot, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return mg.game.Snapshot(), nil
}

// MakeMove applies a move. An expired clock for the side to move turns the
// request into a timeout instead.
func (gm *GameManager) MakeMove(gameID string, from, to model.Position, promotion model.PieceType) (model.MoveResult, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return model.MoveResult{}, err
	}

	mover := mg.game.CurrentTurn()
	if !mg.game.GameOver() && mg.clockFor(mover).Expired() {
		end := mg.game.Timeout(mover)
		gm.recordIfFinished(mg.game)
		return model.MoveResult{Message: end.Message, GameOver: end.GameOver, Winner: end.Winner}, nil
	}

	result := mg.game.MakeMove(from, to, promotion)
	if result.Success {
		mg.clockFor(mover).Stop()
		if mg.game.GameOver() {
			gm.recordIfFinished(mg.game)
		} else {
			mg.clockFor(mover.Opponent()).Start()
		}
	}
	return result, nil
}

// MakeAIMove asks the automated opponent for a move.
func (gm *GameManager) MakeAIMove(gameID string) (model.AIMoveResult, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return model.AIMoveResult{}, err
	}

	mover := mg.game.CurrentTurn()
	result := mg.game.MakeAIMove()
	if result.Success {
		mg.clockFor(mover).Stop()
		if mg.game.GameOver() {
			gm.recordIfFinished(mg.game)
		} else {
			mg.clockFor(mover.Opponent()).Start()
		}
	}
	return result, nil
}

// LegalMoves returns the legal destinations for the piece on the square.
func (gm *GameManager) LegalMoves(gameID string, pos model.Position) ([]model.Position, error) {
	// legal-move filtering simulates on the live board, so this takes the
	// write lock
	gm.mu.Lock()
	defer gm.mu.Unlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return nil, err
	}
	return mg.game.GetLegalMoves(pos), nil
}

// Undo unwinds the last move (or AI round trip).
func (gm *GameManager) Undo(gameID string) (model.UndoResult, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return model.UndoResult{}, err
	}
	return mg.game.UndoMove(), nil
}

// Resign ends the game against the given color.
func (gm *GameManager) Resign(gameID string, color model.Color) (model.EndResult, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return model.EndResult{}, err
	}

	result := mg.game.Resign(color)
	mg.whiteClock.Stop()
	mg.blackClock.Stop()
	gm.recordIfFinished(mg.game)
	return result, nil
}

// Replay rebuilds every intermediate state of a live game.
func (gm *GameManager) Replay(gameID string) ([]model.Snapshot, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	mg, err := gm.get(gameID)
	if err != nil {
		return nil, err
	}
	return replay.BuildStates(mg.game.Snapshot().MoveHistory)
}

// SaveGame persists a live game's snapshot.
func (gm *GameManager) SaveGame(gameID string) error {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	if gm.store == nil {
		return ErrNoStore
	}
	mg, err := gm.get(gameID)
	if err != nil {
		return err
	}
	return gm.store.SaveGame(mg.game.Snapshot())
}

// LoadGame resumes a stored game as a live one and returns its state.
func (gm *GameManager) LoadGame(gameID string) (model.Snapshot, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.store == nil {
		return model.Snapshot{}, ErrNoStore
	}

	snap, err := gm.store.LoadGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	game, err := model.FromSnapshot(snap)
	if err != nil {
		return model.Snapshot{}, err
	}

	mg := &managedGame{
		game:       game,
		whiteClock: model.NewClock(defaultTimeControl),
		blackClock: model.NewClock(defaultTimeControl),
	}
	if !game.GameOver() {
		mg.clockFor(game.CurrentTurn()).Start()
	}
	gm.games[game.ID()] = mg
	return game.Snapshot(), nil
}

// ListSaved lists every stored game.
func (gm *GameManager) ListSaved() ([]store.GameSummary, error) {
	if gm.store == nil {
		return nil, ErrNoStore
	}
	return gm.store.ListGames()
}

// Stats returns the aggregate finished-game results.
func (gm *GameManager) Stats() (*store.Stats, error) {
	if gm.store == nil {
		return nil, ErrNoStore
	}
	return gm.store.LoadStats()
}

func (gm *GameManager) recordIfFinished(game *model.Game) {
	if gm.store == nil || !game.GameOver() {
		return
	}
	// result recording is best effort; a storage hiccup must not undo a move
	_ = gm.store.RecordResult(game.Snapshot())
}
