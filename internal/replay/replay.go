// Package replay rebuilds every intermediate state of a finished or ongoing
// game from its recorded move list, for review UIs. It relies on the core
// being deterministic: the same moves from the same start always produce
// the same states, notation included.
package replay

import (
	"fmt"

	"github.com/chessweb/chess-backend/internal/model"
)

// BuildStates replays the move history from the standard starting position
// and returns a snapshot before any move plus one after each ply.
func BuildStates(history []model.MoveRecord) ([]model.Snapshot, error) {
	game := model.NewGame()
	states := []model.Snapshot{game.Snapshot()}

	for i, move := range history {
		promotion := move.Promotion
		if promotion == "" {
			promotion = model.Queen
		}
		result := game.MakeMove(move.From, move.To, promotion)
		if !result.Success {
			return nil, fmt.Errorf("replay diverged at ply %d (%s): %s", i+1, move.Notation, result.Message)
		}
		states = append(states, game.Snapshot())
	}

	return states, nil
}
