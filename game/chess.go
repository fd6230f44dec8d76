package game

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Chess is a State backed by github.com/notnil/chess.
type Chess struct {
	g *chess.Game

	// last move resolved by Decode in the current position
	decoded      *chess.Move
	decodedToken string
}

// NewChess returns a game in the standard starting position.
func NewChess() State {
	return &Chess{g: chess.NewGame()}
}

func (c *Chess) Turn() Side { return fromColor(c.g.Position().Turn()) }

func (c *Chess) Decode(token string) (Move, error) {
	m, err := chess.AlgebraicNotation{}.Decode(c.g.Position(), token)
	if err != nil {
		return Move{}, errors.Wrapf(err, "decode %q", token)
	}
	c.decoded, c.decodedToken = m, token
	return Move{From: Square(m.S1()), To: Square(m.S2()), Token: token}, nil
}

// Apply reuses the move of the preceding Decode when the token matches.
func (c *Chess) Apply(token string) error {
	m := c.decoded
	if m == nil || c.decodedToken != token {
		var err error
		if m, err = (chess.AlgebraicNotation{}).Decode(c.g.Position(), token); err != nil {
			return errors.Wrapf(err, "decode %q", token)
		}
	}
	c.decoded, c.decodedToken = nil, ""
	if err := c.g.Move(m); err != nil {
		return errors.Wrapf(err, "apply %q", token)
	}
	return nil
}

func (c *Chess) Occupant(sq Square) (Occupant, error) {
	if !sq.Valid() {
		return Occupant{}, errors.Errorf("square %d out of range", int8(sq))
	}
	p := c.g.Position().Board().Piece(chess.Square(sq))
	if p == chess.NoPiece {
		return Occupant{}, nil
	}
	return Occupant{Type: fromPieceType(p.Type()), Side: fromColor(p.Color())}, nil
}

func fromColor(c chess.Color) Side {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return NoSide
}

func fromPieceType(t chess.PieceType) PieceType {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoPieceType
}
