package model

import (
	"math"
	"math/rand"
)

// searchDepth is the number of reply plies explored beyond each candidate
// root move.
const searchDepth = 1

const (
	winScore       = 10000.0
	mobilityWeight = 0.05
	checkBonus     = 0.5
	checkPenalty   = -0.6
)

var pieceValues = map[PieceType]float64{
	Pawn:   1.0,
	Knight: 3.0,
	Bishop: 3.25,
	Rook:   5.0,
	Queen:  9.0,
	King:   0.0,
}

// MakeAIMove lets the automated opponent pick and apply a move. It returns
// a no-move result when the AI is disabled, the game is over, or it is not
// the automated color's turn.
func (g *Game) MakeAIMove() AIMoveResult {
	noMove := AIMoveResult{MoveResult: MoveResult{Message: "No AI move available"}}
	if !g.aiEnabled || g.gameOver || g.currentTurn != g.aiColor {
		return noMove
	}

	move := chooseAIMove(g)
	if move == nil {
		return noMove
	}

	result := AIMoveResult{MoveResult: g.MakeMove(move.From, move.To, Queen)}
	if result.Success {
		result.Move = move
	}
	return result
}

// chooseAIMove scores every legal move for the automated color with a
// shallow alpha-beta search over cloned games and picks uniformly among the
// best scorers, so equal positions do not produce deterministic play.
func chooseAIMove(g *Game) *SimpleMove {
	if g.gameOver || g.currentTurn != g.aiColor {
		return nil
	}

	moves := collectLegalMoves(g, g.aiColor)
	if len(moves) == 0 {
		return nil
	}

	bestMoves := []SimpleMove{}
	bestScore := math.Inf(-1)
	for _, move := range moves {
		simulated := simulateMove(g, move)
		if simulated == nil {
			continue
		}
		score := minimax(simulated, searchDepth, false, g.aiColor, math.Inf(-1), math.Inf(1))
		if score > bestScore {
			bestScore = score
			bestMoves = []SimpleMove{move}
		} else if score == bestScore {
			bestMoves = append(bestMoves, move)
		}
	}
	if len(bestMoves) == 0 {
		move := moves[rand.Intn(len(moves))]
		return &move
	}

	move := bestMoves[rand.Intn(len(bestMoves))]
	return &move
}

// minimax is a depth-limited minimax with alpha-beta pruning. Every
// explored position is an independent clone; the live game is never
// touched.
func minimax(g *Game, depth int, maximizing bool, aiColor Color, alpha, beta float64) float64 {
	if g.gameOver || depth == 0 {
		return evaluateTerminal(g, aiColor)
	}

	moves := collectLegalMoves(g, g.currentTurn)
	if len(moves) == 0 {
		return evaluateTerminal(g, aiColor)
	}

	if maximizing {
		value := math.Inf(-1)
		for _, move := range moves {
			simulated := simulateMove(g, move)
			if simulated == nil {
				continue
			}
			value = math.Max(value, minimax(simulated, depth-1, false, aiColor, alpha, beta))
			alpha = math.Max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, move := range moves {
		simulated := simulateMove(g, move)
		if simulated == nil {
			continue
		}
		value = math.Min(value, minimax(simulated, depth-1, true, aiColor, alpha, beta))
		beta = math.Min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return value
}

func evaluateTerminal(g *Game, aiColor Color) float64 {
	if g.gameOver {
		if g.winner == nil {
			return 0
		}
		if *g.winner == aiColor {
			return winScore
		}
		return -winScore
	}
	return evaluatePosition(g, aiColor)
}

// evaluatePosition is the static heuristic: material difference, a small
// mobility term, and check bonuses.
func evaluatePosition(g *Game, aiColor Color) float64 {
	opponent := aiColor.Opponent()
	material := materialScore(g, aiColor) - materialScore(g, opponent)
	mobility := float64(mobilityScore(g, aiColor) - mobilityScore(g, opponent))

	score := material + mobilityWeight*mobility
	if g.board.IsInCheck(opponent) {
		score += checkBonus
	}
	if g.board.IsInCheck(aiColor) {
		score += checkPenalty
	}
	return score
}

func materialScore(g *Game, color Color) float64 {
	score := 0.0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := g.board.grid[row][col]; piece != nil && piece.Color == color {
				score += pieceValues[piece.Type]
			}
		}
	}
	return score
}

func mobilityScore(g *Game, color Color) int {
	total := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := g.board.grid[row][col]; piece != nil && piece.Color == color {
				total += len(g.board.LegalMoves(Position{Row: row, Col: col}))
			}
		}
	}
	return total
}

func collectLegalMoves(g *Game, color Color) []SimpleMove {
	moves := []SimpleMove{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := Position{Row: row, Col: col}
			piece := g.board.PieceAt(from)
			if piece == nil || piece.Color != color {
				continue
			}
			for _, to := range g.board.LegalMoves(from) {
				moves = append(moves, SimpleMove{From: from, To: to})
			}
		}
	}
	return moves
}

func simulateMove(g *Game, move SimpleMove) *Game {
	simulated := g.clone()
	if result := simulated.MakeMove(move.From, move.To, Queen); !result.Success {
		return nil
	}
	return simulated
}
