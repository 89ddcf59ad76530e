package model

import (
	"reflect"
	"testing"
)

func TestIsSquareAttacked(t *testing.T) {
	b := emptyTestBoard()
	place(b, 4, 0, Rook, Black)

	if !b.IsSquareAttacked(Position{Row: 4, Col: 7}, Black) {
		t.Errorf("rook should attack along its rank")
	}
	if !b.IsSquareAttacked(Position{Row: 0, Col: 0}, Black) {
		t.Errorf("rook should attack along its file")
	}
	if b.IsSquareAttacked(Position{Row: 5, Col: 5}, Black) {
		t.Errorf("rook should not attack diagonally")
	}

	place(b, 4, 3, Pawn, White)
	if b.IsSquareAttacked(Position{Row: 4, Col: 7}, Black) {
		t.Errorf("blocker should cut the rook's rank")
	}
}

func TestIsInCheck(t *testing.T) {
	b := emptyTestBoard()
	place(b, 7, 4, King, White)
	place(b, 0, 4, King, Black)
	if b.IsInCheck(White) || b.IsInCheck(Black) {
		t.Fatalf("no check expected on quiet board")
	}

	place(b, 4, 4, Rook, Black)
	if !b.IsInCheck(White) {
		t.Errorf("white king on the rook's file should be in check")
	}
	if b.IsInCheck(Black) {
		t.Errorf("black is not in check")
	}
}

func TestLegalMovesPinnedPiece(t *testing.T) {
	b := emptyTestBoard()
	place(b, 7, 4, King, White)
	place(b, 6, 4, Bishop, White)
	place(b, 0, 4, Rook, Black)
	place(b, 0, 0, King, Black)

	moves := b.LegalMoves(Position{Row: 6, Col: 4})
	if len(moves) != 0 {
		t.Errorf("pinned bishop must not have legal moves, got %v", moves)
	}
}

func TestLegalMovesKingCannotStepIntoCheck(t *testing.T) {
	b := emptyTestBoard()
	place(b, 7, 4, King, White)
	place(b, 0, 3, Rook, Black)
	place(b, 0, 0, King, Black)

	moves := b.LegalMoves(Position{Row: 7, Col: 4})
	for _, move := range moves {
		if move.Col == 3 {
			t.Errorf("king must not step onto the attacked d-file, got %v", moves)
		}
	}
}

func TestCastlingLegality(t *testing.T) {
	castle := Position{Row: 7, Col: 6}

	setup := func(mutate func(b *Board)) *Board {
		b := emptyTestBoard()
		place(b, 7, 4, King, White)
		place(b, 7, 7, Rook, White)
		place(b, 0, 0, King, Black)
		if mutate != nil {
			mutate(b)
		}
		return b
	}

	tests := []struct {
		name    string
		mutate  func(b *Board)
		allowed bool
	}{
		{name: "all conditions met", allowed: true},
		{
			name:   "rook has moved",
			mutate: func(b *Board) { b.grid[7][7].HasMoved = true },
		},
		{
			name:   "king has moved",
			mutate: func(b *Board) { b.grid[7][4].HasMoved = true },
		},
		{
			name:   "piece between king and rook",
			mutate: func(b *Board) { place(b, 7, 5, Bishop, White) },
		},
		{
			name:   "king in check",
			mutate: func(b *Board) { place(b, 2, 4, Rook, Black) },
		},
		{
			name:   "transit square attacked",
			mutate: func(b *Board) { place(b, 2, 5, Rook, Black) },
		},
		{
			name:   "landing square attacked",
			mutate: func(b *Board) { place(b, 2, 6, Rook, Black) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(tt.mutate)
			got := hasMove(b.LegalMoves(Position{Row: 7, Col: 4}), castle)
			if got != tt.allowed {
				t.Errorf("castling allowed = %v, want %v", got, tt.allowed)
			}
		})
	}
}

func TestLegalMovesRestoreBoard(t *testing.T) {
	b := NewBoard()
	before := b.Snapshot()

	b.LegalMoves(Position{Row: 7, Col: 1})
	b.LegalMoves(Position{Row: 6, Col: 4})
	b.HasLegalMoves(White)

	if !reflect.DeepEqual(before, b.Snapshot()) {
		t.Errorf("legal-move filtering must leave the board untouched")
	}
}

func TestHasLegalMoves(t *testing.T) {
	b := NewBoard()
	if !b.HasLegalMoves(White) || !b.HasLegalMoves(Black) {
		t.Errorf("both sides have moves in the starting position")
	}
}

func TestBoardSnapshotRoundTrip(t *testing.T) {
	b := NewBoard()
	b.MovePiece(Position{Row: 6, Col: 4}, Position{Row: 4, Col: 4})
	b.enPassantTarget = &Position{Row: 5, Col: 4}

	restored, err := BoardFromSnapshot(b.Snapshot())
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !reflect.DeepEqual(b.Snapshot(), restored.Snapshot()) {
		t.Errorf("restored board differs from original")
	}
	if restored.enPassantTarget == nil || *restored.enPassantTarget != (Position{Row: 5, Col: 4}) {
		t.Errorf("en passant target not preserved")
	}
	if !restored.PieceAt(Position{Row: 4, Col: 4}).HasMoved {
		t.Errorf("moved flag not preserved")
	}
}

func TestBoardFromSnapshotRejectsBadInput(t *testing.T) {
	if _, err := BoardFromSnapshot(BoardSnapshot{}); err == nil {
		t.Errorf("missing grid must be rejected")
	}

	snap := NewBoard().Snapshot()
	snap.Grid[3][3] = &PieceSnapshot{Type: "wizard", Color: White}
	if _, err := BoardFromSnapshot(snap); err == nil {
		t.Errorf("unknown piece type must be rejected")
	}

	snap = NewBoard().Snapshot()
	snap.EnPassantTarget = &Position{Row: 9, Col: 0}
	if _, err := BoardFromSnapshot(snap); err == nil {
		t.Errorf("out-of-range en passant target must be rejected")
	}
}
