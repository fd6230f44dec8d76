package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Grid is an 8x8 plane stored row-major, row 0 being rank 8 and column 0 file a.
type Grid [Cells]int8

// Set writes v at the cell of sq.
func (g *Grid) Set(sq Square, v int8) { g[sq.Cell()] = v }

// At reads the value at the cell of sq.
func (g Grid) At(sq Square) int8 { return g[sq.Cell()] }

// PlaneSet is one encoded position plus a move's origin and destination.
//
// Occupancy planes hold +1 for a piece of the encoding side, -1 for an
// opposing piece and 0 for anything else.
type PlaneSet struct {
	Occupancy [len(PieceTypes)]Grid // indexed by PieceType-1
	Selected  Grid                  // one-hot origin square
	Target    Grid                  // one-hot destination square
}

// SerialOrder is the order occupancy planes are written in.
var SerialOrder = [...]PieceType{Pawn, Bishop, Knight, Rook, Queen, King}

// Plane returns the occupancy plane for t.
func (p *PlaneSet) Plane(t PieceType) *Grid {
	if t == NoPieceType || int(t) > len(p.Occupancy) {
		panic(fmt.Sprintf("no plane for piece type %d", t))
	}
	return &p.Occupancy[t-1]
}

// Encode builds the plane set for move m in the current position of st,
// viewed from side. It only reads from st.
func Encode(st State, side Side, m Move) (PlaneSet, error) {
	var ps PlaneSet
	if !m.From.Valid() || !m.To.Valid() {
		return ps, errors.Errorf("move %q has squares out of range", m.Token)
	}
	for row := 0; row < RowNum; row++ {
		for col := 0; col < ColNum; col++ {
			sq := NewSquare(col, RowNum-1-row)
			occ, err := st.Occupant(sq)
			if err != nil {
				return ps, errors.Wrapf(err, "occupant of %v", sq)
			}
			if occ.Empty() {
				continue
			}
			var v int8 = -1
			if occ.Side == side {
				v = 1
			}
			ps.Plane(occ.Type)[row*ColNum+col] = v
		}
	}
	ps.Selected.Set(m.From, 1)
	ps.Target.Set(m.To, 1)
	return ps, nil
}

// String prints every plane as a labelled 8x8 block.
func (p *PlaneSet) String() string {
	var b strings.Builder
	for _, t := range SerialOrder {
		name := t.String()
		writeBlock(&b, strings.ToUpper(name[:1])+name[1:]+"s", p.Plane(t))
	}
	writeBlock(&b, "Piece Selected", &p.Selected)
	writeBlock(&b, "Target", &p.Target)
	return b.String()
}

func writeBlock(b *strings.Builder, label string, g *Grid) {
	b.WriteString(label)
	b.WriteByte('\n')
	for i, v := range g {
		fmt.Fprintf(b, "%2d ", v)
		if (i+1)%ColNum == 0 {
			b.WriteByte('\n')
		}
	}
}
