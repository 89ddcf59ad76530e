package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultAIUndoPly = 2

// Game is the turn/undo state machine around one board. It is mutated only
// through its own operations and carries no locking; callers must give each
// in-flight game a single active instance.
type Game struct {
	id              string
	board           *Board
	currentTurn     Color
	moveHistory     []MoveRecord
	captured        CapturedPieces
	gameOver        bool
	winner          *Color
	statusMessage   string
	finishedAt      *time.Time
	halfmoveClock   int
	positionHistory []string
	aiEnabled       bool
	aiColor         Color
	aiUndoPly       int
}

// NewGame returns a fresh game with the standard setup, white to move and
// the automated opponent playing black.
func NewGame() *Game {
	return &Game{
		id:            uuid.New().String(),
		board:         NewBoard(),
		currentTurn:   White,
		statusMessage: "White's turn",
		captured:      CapturedPieces{White: []PieceSnapshot{}, Black: []PieceSnapshot{}},
		aiEnabled:     true,
		aiColor:       Black,
		aiUndoPly:     defaultAIUndoPly,
	}
}

func (g *Game) ID() string          { return g.id }
func (g *Game) CurrentTurn() Color  { return g.currentTurn }
func (g *Game) GameOver() bool      { return g.gameOver }
func (g *Game) Winner() *Color      { return g.winner }
func (g *Game) Status() string      { return g.statusMessage }
func (g *Game) Board() *Board       { return g.board }
func (g *Game) MoveCount() int      { return len(g.moveHistory) }

// SetAI configures the automated opponent.
func (g *Game) SetAI(enabled bool, color Color) {
	g.aiEnabled = enabled
	g.aiColor = color
}

// SetAIUndoPly sets how many ply a single undo unwinds when the most recent
// mover was the automated color.
func (g *Game) SetAIUndoPly(ply int) {
	if ply > 0 {
		g.aiUndoPly = ply
	}
}

// MakeMove applies one move for the side to move. Illegal requests fail
// closed with a message and leave the game untouched.
func (g *Game) MakeMove(from, to Position, promotion PieceType) MoveResult {
	if g.gameOver {
		return MoveResult{Message: "Game is over", GameOver: true, Winner: g.winner}
	}

	piece := g.board.PieceAt(from)
	if piece == nil {
		return MoveResult{Message: "No piece at that position"}
	}
	if piece.Color != g.currentTurn {
		return MoveResult{Message: fmt.Sprintf("It's %s's turn", g.currentTurn)}
	}
	if !containsPosition(g.board.LegalMoves(from), to) {
		return MoveResult{Message: "Illegal move"}
	}

	record := MoveRecord{
		From:         from,
		To:           to,
		PrevHalfmove: g.halfmoveClock,
	}
	if ep := g.board.enPassantTarget; ep != nil {
		prev := *ep
		record.PrevEnPassant = &prev
	}

	// resolve the capture: en passant takes the pawn behind the target
	captured := g.board.PieceAt(to)
	capturedSquare := to
	if piece.Type == Pawn && g.board.enPassantTarget != nil && to == *g.board.enPassantTarget {
		capturedSquare = Position{Row: from.Row, Col: to.Col}
		captured = g.board.PieceAt(capturedSquare)
		g.board.setPiece(capturedSquare, nil)
		record.EnPassant = true
	}
	if captured != nil {
		*g.captured.byColor(g.currentTurn) = append(*g.captured.byColor(g.currentTurn), *snapshotPiece(captured))
		record.Captured = snapshotPiece(captured)
		square := capturedSquare
		record.CapturedSquare = &square
	}

	// castling relocates the rook alongside the king
	if piece.Type == King && abs(to.Col-from.Col) == 2 {
		if to.Col > from.Col {
			g.board.MovePiece(Position{Row: from.Row, Col: 7}, Position{Row: from.Row, Col: 5})
		} else {
			g.board.MovePiece(Position{Row: from.Row, Col: 0}, Position{Row: from.Row, Col: 3})
		}
	}

	wasPawn := piece.Type == Pawn
	g.board.MovePiece(from, to)

	promoted := false
	if wasPawn && (to.Row == 0 || to.Row == 7) {
		promoType := normalizePromotion(promotion)
		piece = &Piece{Type: promoType, Color: piece.Color, HasMoved: true}
		g.board.setPiece(to, piece)
		promoted = true
		record.Promotion = promoType
	}

	// a new en passant target exists only right after a double push
	g.board.enPassantTarget = nil
	if wasPawn && !promoted && abs(to.Row-from.Row) == 2 {
		target := Position{Row: (from.Row + to.Row) / 2, Col: to.Col}
		g.board.enPassantTarget = &target
	}

	if wasPawn || captured != nil {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}

	positionKey := g.positionKey()
	g.positionHistory = append(g.positionHistory, positionKey)

	record.Piece = *snapshotPiece(piece)
	record.Notation = g.notation(piece, from, to, captured != nil)
	g.moveHistory = append(g.moveHistory, record)

	g.currentTurn = g.currentTurn.Opponent()

	inCheck := g.board.IsInCheck(g.currentTurn)
	hasMoves := g.board.HasLegalMoves(g.currentTurn)

	switch {
	case inCheck && !hasMoves:
		winner := g.currentTurn.Opponent()
		g.setGameOver(fmt.Sprintf("Checkmate! %s wins!", winner.Title()), &winner)
	case !hasMoves:
		g.setGameOver("Stalemate! Game is a draw.", nil)
	case g.halfmoveClock >= 50:
		g.setGameOver("Draw by fifty-move rule!", nil)
	case countString(g.positionHistory, positionKey) >= 3:
		g.setGameOver("Draw by threefold repetition!", nil)
	case g.insufficientMaterial():
		g.setGameOver("Draw by insufficient material!", nil)
	case inCheck:
		g.statusMessage = fmt.Sprintf("%s is in check!", g.currentTurn.Title())
	default:
		g.statusMessage = fmt.Sprintf("%s's turn", g.currentTurn.Title())
	}

	return MoveResult{
		Success:  true,
		Message:  g.statusMessage,
		InCheck:  inCheck,
		GameOver: g.gameOver,
		Winner:   g.winner,
		Captured: captured != nil,
	}
}

// GetLegalMoves returns the legal destinations for the piece on the square.
// An empty square or a piece of the side not to move yields no moves.
func (g *Game) GetLegalMoves(pos Position) []Position {
	piece := g.board.PieceAt(pos)
	if piece == nil || piece.Color != g.currentTurn {
		return []Position{}
	}
	return g.board.LegalMoves(pos)
}

// UndoMove unwinds the most recent ply. When the automated opponent made
// the last move, it unwinds aiUndoPly plies so control returns to the
// human side.
func (g *Game) UndoMove() UndoResult {
	if len(g.moveHistory) == 0 {
		return UndoResult{Message: "No moves to undo"}
	}

	plies := 1
	if g.aiEnabled && len(g.moveHistory) >= 2 {
		if g.moveHistory[len(g.moveHistory)-1].Piece.Color == g.aiColor {
			plies = g.aiUndoPly
		}
	}

	for i := 0; i < plies && len(g.moveHistory) > 0; i++ {
		g.unwindPly()
	}

	g.gameOver = false
	g.winner = nil
	g.finishedAt = nil

	inCheck := g.board.IsInCheck(g.currentTurn)
	if inCheck {
		g.statusMessage = fmt.Sprintf("%s is in check!", g.currentTurn.Title())
	} else {
		g.statusMessage = fmt.Sprintf("%s's turn", g.currentTurn.Title())
	}

	return UndoResult{Success: true, Message: "Move undone", InCheck: inCheck}
}

func (g *Game) unwindPly() {
	record := g.moveHistory[len(g.moveHistory)-1]
	g.moveHistory = g.moveHistory[:len(g.moveHistory)-1]

	// rebuild the mover on its origin square; a promotion ply reverts to
	// the pawn that made it
	moverType := record.Piece.Type
	if record.Promotion != "" {
		moverType = Pawn
	}
	mover := &Piece{Type: moverType, Color: record.Piece.Color, HasMoved: record.Piece.HasMoved}
	if !g.pieceMovedEarlier(record.From, record.Piece.Color, moverType) {
		mover.HasMoved = false
	}
	g.board.setPiece(record.From, mover)
	g.board.setPiece(record.To, nil)

	// castling also returns the rook, which was necessarily unmoved
	if record.Piece.Type == King && abs(record.To.Col-record.From.Col) == 2 {
		if record.To.Col > record.From.Col {
			g.board.setPiece(Position{Row: record.From.Row, Col: 7}, &Piece{Type: Rook, Color: record.Piece.Color})
			g.board.setPiece(Position{Row: record.From.Row, Col: 5}, nil)
		} else {
			g.board.setPiece(Position{Row: record.From.Row, Col: 0}, &Piece{Type: Rook, Color: record.Piece.Color})
			g.board.setPiece(Position{Row: record.From.Row, Col: 3}, nil)
		}
	}

	if record.Captured != nil {
		square := record.To
		if record.CapturedSquare != nil {
			square = *record.CapturedSquare
		}
		g.board.setPiece(square, record.Captured.piece())

		list := g.captured.byColor(record.Captured.Color.Opponent())
		if len(*list) > 0 {
			*list = (*list)[:len(*list)-1]
		}
	}

	g.currentTurn = g.currentTurn.Opponent()

	if len(g.positionHistory) > 0 {
		g.positionHistory = g.positionHistory[:len(g.positionHistory)-1]
	}

	g.halfmoveClock = record.PrevHalfmove
	g.board.enPassantTarget = nil
	if record.PrevEnPassant != nil {
		target := *record.PrevEnPassant
		g.board.enPassantTarget = &target
	}
}

// pieceMovedEarlier reports whether the remaining history still involves the
// piece that stood on origin, which decides its restored moved flag.
func (g *Game) pieceMovedEarlier(origin Position, color Color, pieceType PieceType) bool {
	for _, move := range g.moveHistory {
		if move.Piece.Color != color || move.Piece.Type != pieceType {
			continue
		}
		if move.From == origin || move.To == origin {
			return true
		}
	}
	return false
}

// Resign ends the game in favor of the resigning color's opponent. It does
// not need to be that color's turn.
func (g *Game) Resign(color Color) EndResult {
	winner := color.Opponent()
	g.setGameOver(fmt.Sprintf("%s resigned. %s wins!", color.Title(), winner.Title()), &winner)
	return EndResult{Success: true, Message: g.statusMessage, GameOver: true, Winner: g.winner}
}

// Timeout ends the game against the color whose clock ran out.
func (g *Game) Timeout(color Color) EndResult {
	winner := color.Opponent()
	g.setGameOver(fmt.Sprintf("Time out! %s wins!", winner.Title()), &winner)
	return EndResult{Success: true, Message: g.statusMessage, GameOver: true, Winner: g.winner}
}

func (g *Game) setGameOver(message string, winner *Color) {
	g.gameOver = true
	g.winner = winner
	g.statusMessage = message
	if g.finishedAt == nil {
		now := time.Now().UTC()
		g.finishedAt = &now
	}
}

func (g *Game) notation(piece *Piece, from, to Position, captured bool) string {
	if piece.Type == King && abs(to.Col-from.Col) == 2 {
		if to.Col > from.Col {
			return "O-O"
		}
		return "O-O-O"
	}

	symbol := piece.Type.notation()
	if symbol == "" && captured {
		return fmt.Sprintf("%sx%s", from.fileLetter(), to.algebraic())
	}
	captureMark := ""
	if captured {
		captureMark = "x"
	}
	return fmt.Sprintf("%s%s%s", symbol, captureMark, to.algebraic())
}

// positionKey encodes full occupancy plus the side that just moved. It
// deliberately omits castling rights and en passant availability, so the
// threefold check is slightly looser than strict FIDE repetition.
func (g *Game) positionKey() string {
	var key strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.board.grid[row][col]
			if piece == nil {
				key.WriteString("--")
				continue
			}
			fmt.Fprintf(&key, "%s%c%d%d", piece.Type.keyLetter(), piece.Color[0], row, col)
		}
	}
	key.WriteString(string(g.currentTurn))
	return key.String()
}

// insufficientMaterial reports whether neither side can force mate: bare
// kings, a single minor piece, or one same-square-color bishop per side.
func (g *Game) insufficientMaterial() bool {
	type placed struct {
		piece  *Piece
		square Position
	}
	remaining := []placed{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.board.grid[row][col]
			if piece != nil && piece.Type != King {
				remaining = append(remaining, placed{piece: piece, square: Position{Row: row, Col: col}})
			}
		}
	}

	switch len(remaining) {
	case 0:
		return true
	case 1:
		return remaining[0].piece.Type == Bishop || remaining[0].piece.Type == Knight
	case 2:
		a, b := remaining[0], remaining[1]
		if a.piece.Type != Bishop || b.piece.Type != Bishop {
			return false
		}
		if a.piece.Color == b.piece.Color {
			return false
		}
		return (a.square.Row+a.square.Col)%2 == (b.square.Row+b.square.Col)%2
	}
	return false
}

func normalizePromotion(choice PieceType) PieceType {
	switch PieceType(strings.ToLower(string(choice))) {
	case Queen, Rook, Bishop, Knight:
		return PieceType(strings.ToLower(string(choice)))
	}
	return Queen
}

func containsPosition(moves []Position, target Position) bool {
	for _, move := range moves {
		if move == target {
			return true
		}
	}
	return false
}

func countString(values []string, target string) int {
	count := 0
	for _, v := range values {
		if v == target {
			count++
		}
	}
	return count
}

// Snapshot is the full serialized game used for persistence and replay.
type Snapshot struct {
	GameID          string         `json:"game_id"`
	Board           BoardSnapshot  `json:"board"`
	CurrentTurn     Color          `json:"current_turn"`
	MoveHistory     []MoveRecord   `json:"move_history"`
	CapturedPieces  CapturedPieces `json:"captured_pieces"`
	GameOver        bool           `json:"game_over"`
	Winner          *Color         `json:"winner"`
	StatusMessage   string         `json:"status_message"`
	HalfmoveClock   int            `json:"halfmove_clock"`
	PositionHistory []string       `json:"position_history"`
	AIEnabled       bool           `json:"ai_enabled"`
	AIColor         Color          `json:"ai_color"`
	AIUndoPly       int            `json:"ai_undo_ply,omitempty"`
	FinishedAt      *time.Time     `json:"finished_at"`
}

// Snapshot serializes the full game state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:          g.id,
		Board:           g.board.Snapshot(),
		CurrentTurn:     g.currentTurn,
		MoveHistory:     append([]MoveRecord{}, g.moveHistory...),
		CapturedPieces: CapturedPieces{
			White: append([]PieceSnapshot{}, g.captured.White...),
			Black: append([]PieceSnapshot{}, g.captured.Black...),
		},
		GameOver:        g.gameOver,
		StatusMessage:   g.statusMessage,
		HalfmoveClock:   g.halfmoveClock,
		PositionHistory: append([]string{}, g.positionHistory...),
		AIEnabled:       g.aiEnabled,
		AIColor:         g.aiColor,
		AIUndoPly:       g.aiUndoPly,
	}
	if g.winner != nil {
		winner := *g.winner
		snap.Winner = &winner
	}
	if g.finishedAt != nil {
		finished := *g.finishedAt
		snap.FinishedAt = &finished
	}
	return snap
}

// FromSnapshot reconstructs a game. Only a snapshot missing its board or
// turn is a hard failure; optional fields fall back to defaults.
func FromSnapshot(snap Snapshot) (*Game, error) {
	board, err := BoardFromSnapshot(snap.Board)
	if err != nil {
		return nil, err
	}
	if snap.CurrentTurn != White && snap.CurrentTurn != Black {
		return nil, errors.New("game snapshot has no valid turn")
	}

	g := &Game{
		id:              snap.GameID,
		board:           board,
		currentTurn:     snap.CurrentTurn,
		moveHistory:     append([]MoveRecord{}, snap.MoveHistory...),
		gameOver:        snap.GameOver,
		statusMessage:   snap.StatusMessage,
		halfmoveClock:   snap.HalfmoveClock,
		positionHistory: append([]string{}, snap.PositionHistory...),
		aiEnabled:       snap.AIEnabled,
		aiColor:         snap.AIColor,
		aiUndoPly:       snap.AIUndoPly,
		captured: CapturedPieces{
			White: append([]PieceSnapshot{}, snap.CapturedPieces.White...),
			Black: append([]PieceSnapshot{}, snap.CapturedPieces.Black...),
		},
	}
	if g.id == "" {
		g.id = uuid.New().String()
	}
	if g.aiColor != White && g.aiColor != Black {
		g.aiColor = Black
	}
	if g.aiUndoPly <= 0 {
		g.aiUndoPly = defaultAIUndoPly
	}
	if snap.Winner != nil {
		winner := *snap.Winner
		g.winner = &winner
	}
	if snap.FinishedAt != nil {
		finished := *snap.FinishedAt
		g.finishedAt = &finished
	}
	return g, nil
}

func (g *Game) clone() *Game {
	c := &Game{
		id:              g.id,
		board:           g.board.clone(),
		currentTurn:     g.currentTurn,
		moveHistory:     append([]MoveRecord{}, g.moveHistory...),
		gameOver:        g.gameOver,
		statusMessage:   g.statusMessage,
		halfmoveClock:   g.halfmoveClock,
		positionHistory: append([]string{}, g.positionHistory...),
		aiEnabled:       g.aiEnabled,
		aiColor:         g.aiColor,
		aiUndoPly:       g.aiUndoPly,
		captured: CapturedPieces{
			White: append([]PieceSnapshot{}, g.captured.White...),
			Black: append([]PieceSnapshot{}, g.captured.Black...),
		},
	}
	if g.winner != nil {
		winner := *g.winner
		c.winner = &winner
	}
	if g.finishedAt != nil {
		finished := *g.finishedAt
		c.finishedAt = &finished
	}
	return c
}
