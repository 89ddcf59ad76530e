package model

import (
	"testing"
)

func emptyTestBoard() *Board {
	return &Board{}
}

func place(b *Board, row, col int, pt PieceType, color Color) *Piece {
	piece := &Piece{Type: pt, Color: color}
	b.grid[row][col] = piece
	return piece
}

func hasMove(moves []Position, target Position) bool {
	return containsPosition(moves, target)
}

func TestPawnPseudoMoves(t *testing.T) {
	t.Run("double push from start", func(t *testing.T) {
		b := NewBoard()
		moves := pseudoLegalMoves(b, Position{Row: 6, Col: 4})
		if len(moves) != 2 {
			t.Fatalf("expected 2 moves, got %d", len(moves))
		}
		if !hasMove(moves, Position{Row: 5, Col: 4}) || !hasMove(moves, Position{Row: 4, Col: 4}) {
			t.Errorf("expected e3 and e4, got %v", moves)
		}
	})

	t.Run("no double push once moved", func(t *testing.T) {
		b := emptyTestBoard()
		pawn := place(b, 4, 4, Pawn, White)
		pawn.HasMoved = true
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if len(moves) != 1 || !hasMove(moves, Position{Row: 3, Col: 4}) {
			t.Errorf("expected only single push, got %v", moves)
		}
	})

	t.Run("blocked pawn has no forward moves", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 6, 4, Pawn, White)
		place(b, 5, 4, Pawn, Black)
		moves := pseudoLegalMoves(b, Position{Row: 6, Col: 4})
		if len(moves) != 0 {
			t.Errorf("expected no moves, got %v", moves)
		}
	})

	t.Run("diagonal captures", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 4, 4, Pawn, White)
		place(b, 3, 3, Pawn, Black)
		place(b, 3, 5, Pawn, White)
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if !hasMove(moves, Position{Row: 3, Col: 3}) {
			t.Errorf("expected capture on d5, got %v", moves)
		}
		if hasMove(moves, Position{Row: 3, Col: 5}) {
			t.Errorf("friendly piece must not be capturable, got %v", moves)
		}
	})

	t.Run("en passant target offered", func(t *testing.T) {
		b := emptyTestBoard()
		white := place(b, 3, 4, Pawn, White)
		white.HasMoved = true
		black := place(b, 3, 3, Pawn, Black)
		black.HasMoved = true
		b.enPassantTarget = &Position{Row: 2, Col: 3}
		moves := pseudoLegalMoves(b, Position{Row: 3, Col: 4})
		if !hasMove(moves, Position{Row: 2, Col: 3}) {
			t.Errorf("expected en passant capture on d6, got %v", moves)
		}
	})

	t.Run("black pawns move toward higher rows", func(t *testing.T) {
		b := NewBoard()
		moves := pseudoLegalMoves(b, Position{Row: 1, Col: 0})
		if !hasMove(moves, Position{Row: 2, Col: 0}) || !hasMove(moves, Position{Row: 3, Col: 0}) {
			t.Errorf("expected a6 and a5, got %v", moves)
		}
	})
}

func TestKnightPseudoMoves(t *testing.T) {
	b := emptyTestBoard()
	place(b, 0, 0, Knight, White)
	moves := pseudoLegalMoves(b, Position{Row: 0, Col: 0})
	if len(moves) != 2 {
		t.Fatalf("corner knight should have 2 moves, got %d: %v", len(moves), moves)
	}

	b2 := NewBoard()
	moves = pseudoLegalMoves(b2, Position{Row: 7, Col: 6})
	if len(moves) != 2 || !hasMove(moves, Position{Row: 5, Col: 5}) || !hasMove(moves, Position{Row: 5, Col: 7}) {
		t.Errorf("g1 knight should reach f3 and h3, got %v", moves)
	}
}

func TestSliderPseudoMoves(t *testing.T) {
	t.Run("rook on open board", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 4, 4, Rook, White)
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if len(moves) != 14 {
			t.Errorf("expected 14 rook moves, got %d", len(moves))
		}
	})

	t.Run("ray stops at first occupied square", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 4, 4, Rook, White)
		place(b, 4, 6, Pawn, Black)
		place(b, 2, 4, Pawn, White)
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if !hasMove(moves, Position{Row: 4, Col: 6}) {
			t.Errorf("enemy blocker should be capturable")
		}
		if hasMove(moves, Position{Row: 4, Col: 7}) {
			t.Errorf("ray must stop at enemy blocker")
		}
		if hasMove(moves, Position{Row: 2, Col: 4}) || hasMove(moves, Position{Row: 1, Col: 4}) {
			t.Errorf("ray must stop before friendly blocker")
		}
	})

	t.Run("bishop stays on its diagonals", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 4, 4, Bishop, Black)
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if len(moves) != 13 {
			t.Errorf("expected 13 bishop moves, got %d", len(moves))
		}
		if hasMove(moves, Position{Row: 4, Col: 5}) {
			t.Errorf("bishop must not move orthogonally")
		}
	})

	t.Run("queen combines rook and bishop", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 4, 4, Queen, White)
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if len(moves) != 27 {
			t.Errorf("expected 27 queen moves, got %d", len(moves))
		}
	})
}

func TestKingPseudoMoves(t *testing.T) {
	t.Run("adjacent squares", func(t *testing.T) {
		b := emptyTestBoard()
		king := place(b, 4, 4, King, White)
		king.HasMoved = true
		moves := pseudoLegalMoves(b, Position{Row: 4, Col: 4})
		if len(moves) != 8 {
			t.Errorf("expected 8 king moves, got %d", len(moves))
		}
	})

	t.Run("castling offers with unmoved rooks and clear path", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 7, 4, King, White)
		place(b, 7, 0, Rook, White)
		place(b, 7, 7, Rook, White)
		moves := pseudoLegalMoves(b, Position{Row: 7, Col: 4})
		if !hasMove(moves, Position{Row: 7, Col: 6}) {
			t.Errorf("kingside castle missing from %v", moves)
		}
		if !hasMove(moves, Position{Row: 7, Col: 2}) {
			t.Errorf("queenside castle missing from %v", moves)
		}
	})

	t.Run("no castling offer through blockers or moved rooks", func(t *testing.T) {
		b := emptyTestBoard()
		place(b, 7, 4, King, White)
		rook := place(b, 7, 7, Rook, White)
		rook.HasMoved = true
		place(b, 7, 0, Rook, White)
		place(b, 7, 1, Knight, White)
		moves := pseudoLegalMoves(b, Position{Row: 7, Col: 4})
		if hasMove(moves, Position{Row: 7, Col: 6}) {
			t.Errorf("moved rook must not allow castling")
		}
		if hasMove(moves, Position{Row: 7, Col: 2}) {
			t.Errorf("blocked path must not allow castling")
		}
	})
}
