package model

import "errors"

// Board is an 8x8 occupancy grid. Each cell holds at most one piece and the
// board owns every piece it holds; a piece's square is its grid index.
type Board struct {
	grid            [8][8]*Piece
	enPassantTarget *Position
}

// NewBoard returns a board with the standard starting setup.
func NewBoard() *Board {
	b := &Board{}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, pt := range backRank {
		b.grid[0][col] = &Piece{Type: pt, Color: Black}
		b.grid[7][col] = &Piece{Type: pt, Color: White}
	}
	for col := 0; col < 8; col++ {
		b.grid[1][col] = &Piece{Type: Pawn, Color: Black}
		b.grid[6][col] = &Piece{Type: Pawn, Color: White}
	}
	return b
}

// PieceAt returns the piece on the square, or nil if the square is empty or
// out of range.
func (b *Board) PieceAt(p Position) *Piece {
	if !p.valid() {
		return nil
	}
	return b.grid[p.Row][p.Col]
}

func (b *Board) setPiece(p Position, piece *Piece) {
	if p.valid() {
		b.grid[p.Row][p.Col] = piece
	}
}

// MovePiece relocates the piece on from to to, clearing from and marking the
// piece as moved. It reports whether a piece was present to move.
func (b *Board) MovePiece(from, to Position) bool {
	piece := b.PieceAt(from)
	if piece == nil {
		return false
	}
	b.setPiece(to, piece)
	b.setPiece(from, nil)
	piece.HasMoved = true
	return true
}

// FindKing returns the square of the given color's king.
func (b *Board) FindKing(color Color) (Position, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := b.grid[row][col]
			if piece != nil && piece.Type == King && piece.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// IsSquareAttacked reports whether any piece of byColor has the square among
// its pseudo-legal destinations.
func (b *Board) IsSquareAttacked(target Position, byColor Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := b.grid[row][col]
			if piece == nil || piece.Color != byColor {
				continue
			}
			for _, move := range pseudoLegalMoves(b, Position{Row: row, Col: col}) {
				if move == target {
					return true
				}
			}
		}
	}
	return false
}

// IsInCheck reports whether the given color's king is attacked.
func (b *Board) IsInCheck(color Color) bool {
	kingPos, ok := b.FindKing(color)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(kingPos, color.Opponent())
}

// LegalMoves filters the piece's pseudo-legal moves down to the ones that do
// not leave its own king in check. Castling candidates are vetted against
// the not-out-of-check, not-through-check and not-into-check conditions;
// every other candidate is simulated on the live board and reverted.
func (b *Board) LegalMoves(from Position) []Position {
	piece := b.PieceAt(from)
	if piece == nil {
		return nil
	}

	legal := []Position{}
	for _, move := range pseudoLegalMoves(b, from) {
		if piece.Type == King && abs(move.Col-from.Col) == 2 {
			if b.castlingSafe(from, move, piece.Color) {
				legal = append(legal, move)
			}
			continue
		}

		captured := b.PieceAt(move)
		b.setPiece(move, piece)
		b.setPiece(from, nil)
		if !b.IsInCheck(piece.Color) {
			legal = append(legal, move)
		}
		b.setPiece(from, piece)
		b.setPiece(move, captured)
	}
	return legal
}

func (b *Board) castlingSafe(from, to Position, color Color) bool {
	if b.IsInCheck(color) {
		return false
	}
	enemy := color.Opponent()
	step := 1
	if to.Col < from.Col {
		step = -1
	}
	transit := Position{Row: from.Row, Col: from.Col + step}
	landing := Position{Row: from.Row, Col: from.Col + 2*step}
	return !b.IsSquareAttacked(transit, enemy) && !b.IsSquareAttacked(landing, enemy)
}

// HasLegalMoves reports whether any piece of the color has at least one
// legal move.
func (b *Board) HasLegalMoves(color Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := b.grid[row][col]
			if piece != nil && piece.Color == color {
				if len(b.LegalMoves(Position{Row: row, Col: col})) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// PieceSnapshot is the serialized form of one piece.
type PieceSnapshot struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"has_moved"`
}

func snapshotPiece(p *Piece) *PieceSnapshot {
	if p == nil {
		return nil
	}
	return &PieceSnapshot{Type: p.Type, Color: p.Color, HasMoved: p.HasMoved}
}

func (s *PieceSnapshot) piece() *Piece {
	if s == nil {
		return nil
	}
	return &Piece{Type: s.Type, Color: s.Color, HasMoved: s.HasMoved}
}

// BoardSnapshot is the serialized form of a board: full grid occupancy with
// each piece's moved flag, plus the en passant target.
type BoardSnapshot struct {
	Grid            [][]*PieceSnapshot `json:"board"`
	EnPassantTarget *Position          `json:"en_passant_target"`
}

// Snapshot serializes the board.
func (b *Board) Snapshot() BoardSnapshot {
	grid := make([][]*PieceSnapshot, 8)
	for row := 0; row < 8; row++ {
		grid[row] = make([]*PieceSnapshot, 8)
		for col := 0; col < 8; col++ {
			grid[row][col] = snapshotPiece(b.grid[row][col])
		}
	}
	var ep *Position
	if b.enPassantTarget != nil {
		target := *b.enPassantTarget
		ep = &target
	}
	return BoardSnapshot{Grid: grid, EnPassantTarget: ep}
}

var errBadBoard = errors.New("board snapshot must be an 8x8 grid")

var pieceTypes = map[PieceType]bool{
	Pawn: true, Knight: true, Bishop: true, Rook: true, Queen: true, King: true,
}

// BoardFromSnapshot reconstructs a board. A snapshot without a full 8x8 grid
// cannot be repaired and is rejected.
func BoardFromSnapshot(s BoardSnapshot) (*Board, error) {
	if len(s.Grid) != 8 {
		return nil, errBadBoard
	}
	b := &Board{}
	for row := 0; row < 8; row++ {
		if len(s.Grid[row]) != 8 {
			return nil, errBadBoard
		}
		for col := 0; col < 8; col++ {
			cell := s.Grid[row][col]
			if cell == nil {
				continue
			}
			if !pieceTypes[cell.Type] || (cell.Color != White && cell.Color != Black) {
				return nil, errors.New("board snapshot holds an unknown piece")
			}
			b.grid[row][col] = cell.piece()
		}
	}
	if s.EnPassantTarget != nil {
		if !s.EnPassantTarget.valid() {
			return nil, errors.New("board snapshot en passant target out of range")
		}
		target := *s.EnPassantTarget
		b.enPassantTarget = &target
	}
	return b, nil
}

func (b *Board) clone() *Board {
	c := &Board{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := b.grid[row][col]; piece != nil {
				copied := *piece
				c.grid[row][col] = &copied
			}
		}
	}
	if b.enPassantTarget != nil {
		target := *b.enPassantTarget
		c.enPassantTarget = &target
	}
	return c
}
