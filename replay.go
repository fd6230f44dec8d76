package planegen

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"

	"github.com/planegen/game"
	"github.com/planegen/pgn"
)

// MoveError is a move token the rules engine could not resolve or play.
type MoveError struct {
	Ply   int
	Token string
	Err   error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("ply %d %q: %v", e.Ply, e.Token, e.Err)
}

func (e *MoveError) Cause() error  { return e.Err }
func (e *MoveError) Unwrap() error { return e.Err }

// Outcome of replaying one game.
type Outcome struct {
	Encoded int   // examples written
	Skipped bool  // the game was dropped
	Err     error // why it was dropped
}

// Driver replays qualifying games and writes an example for every move of
// the encoding side.
type Driver struct {
	side     game.Side
	newState game.Factory
	ser      Serializer
	sinks    Sinks
	failFast bool
	logger   zerolog.Logger

	batch Batch
	rows  map[string]int
}

// NewDriver makes a Driver writing to sinks.
func NewDriver(conf Config, newState game.Factory, sinks Sinks, logger zerolog.Logger) (*Driver, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if err := sinks.validate(); err != nil {
		return nil, err
	}
	return &Driver{
		side:     conf.EncodingSide(),
		newState: newState,
		ser:      NewSerializer(conf.Width),
		sinks:    sinks,
		failFast: conf.FailFast,
		logger:   logger,
		rows:     make(map[string]int),
	}, nil
}

// Replay plays rec from the starting position. The rows of a game are only
// written once every move has been played, so a dropped game writes nothing.
//
// A move the engine rejects drops the game. With FailFast the MoveError is
// also returned; otherwise the error is only reported in the Outcome.
// Write failures are always returned.
func (d *Driver) Replay(rec *pgn.Record) (Outcome, error) {
	if !rec.Qualifying {
		return Outcome{}, errors.Errorf("game %d does not qualify", rec.Ordinal)
	}
	d.batch.Reset()
	st := d.newState()
	for i, tok := range rec.Moves {
		if st.Turn() == d.side {
			if err := d.encode(st, tok); err != nil {
				return d.skip(rec, &MoveError{Ply: i + 1, Token: tok, Err: err})
			}
		}
		if err := st.Apply(tok); err != nil {
			return d.skip(rec, &MoveError{Ply: i + 1, Token: tok, Err: err})
		}
	}
	out := Outcome{Encoded: d.batch.Len()}
	if err := d.batch.Flush(d.sinks, d.rows); err != nil {
		return out, errors.Wrapf(err, "write game %d", rec.Ordinal)
	}
	return out, nil
}

func (d *Driver) encode(st game.State, tok string) error {
	m, err := st.Decode(tok)
	if err != nil {
		return err
	}
	occ, err := st.Occupant(m.From)
	if err != nil {
		return err
	}
	if occ.Empty() {
		return errors.Errorf("no piece on %v", m.From)
	}
	ps, err := game.Encode(st, d.side, m)
	if err != nil {
		return err
	}
	if e := d.logger.Debug(); e.Enabled() {
		e.Str("move", tok).Str("piece", occ.Type.String()).Msg("\n" + ps.String())
	}
	return d.ser.Serialize(&d.batch, &ps, occ.Type)
}

func (d *Driver) skip(rec *pgn.Record, err error) (Outcome, error) {
	d.batch.Reset()
	out := Outcome{Skipped: true, Err: err}
	if d.failFast {
		return out, errors.Wrapf(err, "game %d", rec.Ordinal)
	}
	d.logger.Warn().Err(err).Int("game", rec.Ordinal).Int("line", rec.Line).Msg("skipping game")
	return out, nil
}

// Rows returns the records written so far, per stream.
func (d *Driver) Rows() map[string]int {
	return maps.Clone(d.rows)
}
