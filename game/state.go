package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	RowNum = 8
	ColNum = 8
	Cells  = RowNum * ColNum
)

// Side is the colour of a player or a piece.
type Side int8

const (
	NoSide Side = iota
	White
	Black
)

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	}
	return NoSide
}

// ParseSide parses "white"/"black" (or "w"/"b"), case insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return NoSide, errors.Errorf("unknown side %q", s)
}

// PieceType is the kind of a chess piece, independent of its colour.
type PieceType int8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceTypes lists every real piece type in declaration order.
var PieceTypes = [...]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Square is a board square indexed a1=0, b1=1 ... h8=63.
type Square int8

// NewSquare builds a square from a zero based file (a=0) and rank (1=0).
func NewSquare(file, rank int) Square { return Square(rank*ColNum + file) }

// ParseSquare parses algebraic coordinates like "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, errors.Errorf("invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

func (sq Square) File() int   { return int(sq) % ColNum }
func (sq Square) Rank() int   { return int(sq) / ColNum }
func (sq Square) Valid() bool { return sq >= 0 && int(sq) < Cells }
func (sq Square) String() string {
	if !sq.Valid() {
		return fmt.Sprintf("Square(%d)", int8(sq))
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// Cell returns the index of the square in a row-major plane whose first row
// is rank 8 and whose first column is file a.
func (sq Square) Cell() int { return (RowNum-1-sq.Rank())*ColNum + sq.File() }

// Occupant is what stands on a square. The zero value is an empty square.
type Occupant struct {
	Type PieceType
	Side Side
}

func (o Occupant) Empty() bool { return o.Type == NoPieceType }

// Move is a notation token resolved against a position.
type Move struct {
	From, To Square
	Token    string
}

// State is the rules engine a game is replayed on. Implementations own
// legality and notation; callers only query and advance.
type State interface {
	Turn() Side                           // side to move next.
	Decode(token string) (Move, error)    // resolves a notation token against the current position.
	Apply(token string) error             // plays the token. The side to move changes.
	Occupant(sq Square) (Occupant, error) // piece on sq, or the zero Occupant.
}

// Factory creates a State set to the standard starting position.
type Factory func() State
