package planegen

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/planegen/game"
)

// Selector names the stream that receives every example with its selected square.
const Selector = "selector"

// Streams lists every output stream name: the selector stream followed by one
// stream per piece type.
func Streams() []string {
	names := []string{Selector}
	for _, t := range game.PieceTypes {
		names = append(names, t.String())
	}
	return names
}

// Serializer renders plane sets as comma separated, fixed width integers.
//
// A record is two lines: the six occupancy planes in game.SerialOrder on
// the first line, one square plane on the second.
type Serializer struct {
	width int
}

func NewSerializer(width int) Serializer {
	if width < 2 {
		width = 2
	}
	return Serializer{width: width}
}

// WriteGrid writes the 64 cells of g without a line break.
func (s Serializer) WriteGrid(w io.Writer, g *game.Grid) {
	for i, v := range g {
		if i > 0 {
			io.WriteString(w, ",")
		}
		fmt.Fprintf(w, "%*d", s.width, v)
	}
}

func (s Serializer) writeRecord(w io.Writer, ps *game.PlaneSet, square *game.Grid) {
	for i, t := range game.SerialOrder {
		if i > 0 {
			io.WriteString(w, ",")
		}
		s.WriteGrid(w, ps.Plane(t))
	}
	io.WriteString(w, "\n")
	s.WriteGrid(w, square)
	io.WriteString(w, "\n")
}

// Serialize adds ps to b: to the selector stream with its selected square,
// and to the stream of the moved piece type with its target square.
func (s Serializer) Serialize(b *Batch, ps *game.PlaneSet, moved game.PieceType) error {
	if moved == game.NoPieceType || int(moved) > len(b.pieces) {
		return errors.Errorf("no stream for piece type %d", moved)
	}
	s.writeRecord(&b.selector, ps, &ps.Selected)
	s.writeRecord(&b.pieces[moved-1], ps, &ps.Target)
	b.rows[moved-1]++
	b.n++
	return nil
}

// Batch holds the serialized records of one game until they are committed.
type Batch struct {
	selector bytes.Buffer
	pieces   [len(game.PieceTypes)]bytes.Buffer
	rows     [len(game.PieceTypes)]int
	n        int
}

// Len returns the number of examples in the batch.
func (b *Batch) Len() int { return b.n }

func (b *Batch) Reset() {
	b.selector.Reset()
	for i := range b.pieces {
		b.pieces[i].Reset()
		b.rows[i] = 0
	}
	b.n = 0
}

// Flush appends the batch to out, adds the records written per stream to
// rows and resets the batch.
func (b *Batch) Flush(out Sinks, rows map[string]int) error {
	if b.n == 0 {
		return nil
	}
	if _, err := b.selector.WriteTo(out.Selector); err != nil {
		return errors.Wrap(err, Selector)
	}
	rows[Selector] += b.n
	for i, t := range game.PieceTypes {
		if b.rows[i] == 0 {
			continue
		}
		if _, err := b.pieces[i].WriteTo(out.Pieces[t]); err != nil {
			return errors.Wrap(err, t.String())
		}
		rows[t.String()] += b.rows[i]
	}
	b.Reset()
	return nil
}

// ParseGrid parses a serialized line back into its integers.
func ParseGrid(line string) ([]int8, error) {
	fields := strings.Split(line, ",")
	values := make([]int8, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %d", i)
		}
		values[i] = int8(v)
	}
	return values, nil
}
