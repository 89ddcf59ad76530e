package model

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Title returns the capitalized color name for status messages.
func (c Color) Title() string {
	if c == White {
		return "White"
	}
	return "Black"
}

type PieceType string

const (
	Pawn   PieceType = "pawn"
	Knight PieceType = "knight"
	Bishop PieceType = "bishop"
	Rook   PieceType = "rook"
	Queen  PieceType = "queen"
	King   PieceType = "king"
)

func (p PieceType) notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// keyLetter is the single letter used in repetition keys. Unlike notation,
// pawns get their own letter so empty cells cannot be confused with pieces.
func (p PieceType) keyLetter() string {
	if p == Pawn {
		return "P"
	}
	return p.notation()
}

// Position is a board square. Row 0 is black's back rank, row 7 is white's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) valid() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) algebraic() string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, 8-p.Row)
}

func (p Position) fileLetter() string {
	return fmt.Sprintf("%c", 'a'+p.Col)
}

// Piece is a tagged piece variant. A piece does not record its own square:
// the board grid is the single source of truth for piece locations.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"has_moved"`
}

var (
	rookDirs   = []Position{{Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	kingSteps  = queenDirs
	knightSteps = []Position{
		{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2},
		{Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1},
	}
)

// pseudoLegalMoves returns every destination consistent with the piece's
// movement pattern, ignoring whether the mover's king ends up in check.
func pseudoLegalMoves(b *Board, from Position) []Position {
	piece := b.PieceAt(from)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pawnMoves(b, from, piece)
	case Knight:
		return stepMoves(b, from, piece, knightSteps)
	case Bishop:
		return slideMoves(b, from, piece, bishopDirs)
	case Rook:
		return slideMoves(b, from, piece, rookDirs)
	case Queen:
		return slideMoves(b, from, piece, queenDirs)
	case King:
		return kingMoves(b, from, piece)
	}
	return nil
}

func pawnMoves(b *Board, from Position, piece *Piece) []Position {
	moves := []Position{}
	dir := -1
	if piece.Color == Black {
		dir = 1
	}

	// forward one, and two from the starting rank
	oneAhead := Position{Row: from.Row + dir, Col: from.Col}
	if oneAhead.valid() && b.PieceAt(oneAhead) == nil {
		moves = append(moves, oneAhead)
		twoAhead := Position{Row: from.Row + 2*dir, Col: from.Col}
		if !piece.HasMoved && twoAhead.valid() && b.PieceAt(twoAhead) == nil {
			moves = append(moves, twoAhead)
		}
	}

	// diagonal captures
	for _, dc := range []int{-1, 1} {
		target := Position{Row: from.Row + dir, Col: from.Col + dc}
		if !target.valid() {
			continue
		}
		if victim := b.PieceAt(target); victim != nil && victim.Color != piece.Color {
			moves = append(moves, target)
		}
	}

	// en passant
	if ep := b.enPassantTarget; ep != nil {
		if ep.Row == from.Row+dir && abs(ep.Col-from.Col) == 1 {
			moves = append(moves, *ep)
		}
	}

	return moves
}

func stepMoves(b *Board, from Position, piece *Piece, steps []Position) []Position {
	moves := []Position{}
	for _, step := range steps {
		target := Position{Row: from.Row + step.Row, Col: from.Col + step.Col}
		if !target.valid() {
			continue
		}
		if occupant := b.PieceAt(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slideMoves(b *Board, from Position, piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := Position{Row: from.Row + dir.Row, Col: from.Col + dir.Col}
		for target.valid() {
			occupant := b.PieceAt(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = Position{Row: target.Row + dir.Row, Col: target.Col + dir.Col}
		}
	}
	return moves
}

// kingMoves yields the adjacent squares plus castling destinations. Castling
// here only requires unmoved king and rook with an empty path; the check
// conditions on the king's start, transit and landing squares are applied by
// Board.LegalMoves.
func kingMoves(b *Board, from Position, piece *Piece) []Position {
	moves := stepMoves(b, from, piece, kingSteps)
	if piece.HasMoved {
		return moves
	}

	// kingside
	if rook := b.PieceAt(Position{Row: from.Row, Col: 7}); rook != nil && rook.Type == Rook && !rook.HasMoved {
		if b.PieceAt(Position{Row: from.Row, Col: 5}) == nil && b.PieceAt(Position{Row: from.Row, Col: 6}) == nil {
			moves = append(moves, Position{Row: from.Row, Col: from.Col + 2})
		}
	}
	// queenside
	if rook := b.PieceAt(Position{Row: from.Row, Col: 0}); rook != nil && rook.Type == Rook && !rook.HasMoved {
		if b.PieceAt(Position{Row: from.Row, Col: 1}) == nil &&
			b.PieceAt(Position{Row: from.Row, Col: 2}) == nil &&
			b.PieceAt(Position{Row: from.Row, Col: 3}) == nil {
			moves = append(moves, Position{Row: from.Row, Col: from.Col - 2})
		}
	}
	return moves
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
