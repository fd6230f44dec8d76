package planegen

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/planegen/game"
)

const boardCells = len(game.SerialOrder) * game.Cells

// ReadExamples reads every two-line record of a serialized stream.
func ReadExamples(r io.Reader) ([]Example, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<20)

	var examples []Example
	line := 0
	next := func(want int) ([]float32, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, errors.WithStack(err)
			}
			return nil, io.ErrUnexpectedEOF
		}
		line++
		cells, err := ParseGrid(sc.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if len(cells) != want {
			return nil, errors.Errorf("line %d: want %d cells, got %d", line, want, len(cells))
		}
		out := make([]float32, len(cells))
		for i, v := range cells {
			out[i] = float32(v)
		}
		return out, nil
	}

	for {
		board, err := next(boardCells)
		if err == io.ErrUnexpectedEOF {
			return examples, nil
		}
		if err != nil {
			return nil, err
		}
		policy, err := next(game.Cells)
		if err != nil {
			return nil, errors.WithMessagef(err, "record %d", len(examples)+1)
		}
		examples = append(examples, Example{Board: board, Policy: policy})
	}
}

// Stack packs examples into an N×6×8×8 input tensor and an N×64 policy tensor.
func Stack(examples []Example) (Xs, Policies *tensor.Dense, err error) {
	if len(examples) == 0 {
		return nil, nil, errors.New("no examples to stack")
	}
	xs := make([]float32, 0, len(examples)*boardCells)
	ps := make([]float32, 0, len(examples)*game.Cells)
	for i, ex := range examples {
		if len(ex.Board) != boardCells || len(ex.Policy) != game.Cells {
			return nil, nil, errors.Errorf("example %d has shape %d/%d", i, len(ex.Board), len(ex.Policy))
		}
		xs = append(xs, ex.Board...)
		ps = append(ps, ex.Policy...)
	}
	n := len(examples)
	Xs = tensor.New(tensor.WithBacking(xs), tensor.WithShape(n, len(game.SerialOrder), game.RowNum, game.ColNum))
	Policies = tensor.New(tensor.WithBacking(ps), tensor.WithShape(n, game.Cells))
	return Xs, Policies, nil
}

// PlaneSet rebuilds the planes of ex. The policy square goes to Target when
// target is set, to Selected otherwise.
func (ex Example) PlaneSet(target bool) game.PlaneSet {
	var ps game.PlaneSet
	for i, t := range game.SerialOrder {
		plane := ps.Plane(t)
		for c := range plane {
			plane[c] = int8(ex.Board[i*game.Cells+c])
		}
	}
	square := &ps.Selected
	if target {
		square = &ps.Target
	}
	for c := range square {
		square[c] = int8(ex.Policy[c])
	}
	return ps
}
