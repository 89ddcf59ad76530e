package model

// SimpleMove is a bare from/to pair.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MoveRecord is one applied ply. Beyond the squares and piece snapshots it
// keeps the pre-move halfmove clock and en passant target, so undo restores
// both exactly.
type MoveRecord struct {
	From           Position       `json:"from"`
	To             Position       `json:"to"`
	Piece          PieceSnapshot  `json:"piece"`
	Captured       *PieceSnapshot `json:"captured,omitempty"`
	CapturedSquare *Position      `json:"captured_square,omitempty"`
	Notation       string         `json:"notation"`
	Promotion      PieceType      `json:"promotion,omitempty"`
	EnPassant      bool           `json:"en_passant,omitempty"`
	PrevHalfmove   int            `json:"prev_halfmove"`
	PrevEnPassant  *Position      `json:"prev_en_passant,omitempty"`
}

// MoveResult reports the outcome of a move attempt. Rule violations are
// returned here, never as errors.
type MoveResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	InCheck  bool   `json:"in_check"`
	GameOver bool   `json:"game_over"`
	Winner   *Color `json:"winner"`
	Captured bool   `json:"captured"`
}

// UndoResult reports the outcome of an undo attempt.
type UndoResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	InCheck bool   `json:"in_check"`
}

// EndResult reports a resignation or timeout.
type EndResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	GameOver bool   `json:"game_over"`
	Winner   *Color `json:"winner"`
}

// AIMoveResult is a MoveResult plus the move the search selected.
type AIMoveResult struct {
	MoveResult
	Move *SimpleMove `json:"ai_move,omitempty"`
}

// CapturedPieces holds each side's captures in capture order.
type CapturedPieces struct {
	White []PieceSnapshot `json:"white"`
	Black []PieceSnapshot `json:"black"`
}

func (c *CapturedPieces) byColor(color Color) *[]PieceSnapshot {
	if color == White {
		return &c.White
	}
	return &c.Black
}
