// Package planegen turns rated chess game archives into move prediction
// examples. Each move of the encoding side becomes a record of occupancy
// planes plus the square the piece left, and a second record of the same
// planes plus the square it reached, filed under the type of piece moved.
package planegen

import (
	"context"
	"io"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/planegen/game"
	"github.com/planegen/manifest"
	"github.com/planegen/pgn"
)

// Pipeline reads an archive game by game and replays the qualifying ones.
// Games are handled one at a time, in archive order.
type Pipeline struct {
	conf   Config
	driver *Driver
	logger zerolog.Logger
}

// New makes a Pipeline. newState supplies a fresh starting position per game.
func New(conf Config, newState game.Factory, sinks Sinks, logger zerolog.Logger) (*Pipeline, error) {
	d, err := NewDriver(conf, newState, sinks, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{conf: conf, driver: d, logger: logger}, nil
}

// Run processes r until it is exhausted, the game cap is reached or an error
// stops it. The report is returned in every case.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Report, error) {
	report := &Report{}
	g, ctx := errgroup.WithContext(ctx)

	var entries chan manifest.Entry
	if p.conf.Manifest != "" {
		entries = make(chan manifest.Entry, 128)
		g.Go(func() error {
			return manifest.Write(p.conf.Manifest, entries, 1)
		})
	}
	g.Go(func() error {
		if entries != nil {
			defer close(entries)
		}
		return p.process(ctx, r, report, entries)
	})

	err := g.Wait()
	report.Rows = p.driver.Rows()
	if br, ok := r.(interface{ BytesRead() int64 }); ok {
		report.BytesRead = bytesize.New(float64(br.BytesRead()))
	}
	return report, err
}

func (p *Pipeline) process(ctx context.Context, r io.Reader, report *Report, entries chan<- manifest.Entry) error {
	rd := pgn.NewReader(r, p.conf.MinRating)
	defer func() { report.Lines = rd.Lines() }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read archive")
		}
		report.Games++

		entry := newEntry(rec)
		if rec.Qualifying {
			report.addQualifying(rec)
			out, err := p.driver.Replay(rec)
			if err != nil {
				return err
			}
			entry.Encoded = int32(out.Encoded)
			report.Examples += out.Encoded
			if out.Skipped {
				report.Skipped++
				entry.Status = manifest.Skipped
				entry.Reason = out.Err.Error()
			} else {
				report.Encoded++
			}
		} else {
			report.Rejected++
		}

		if entries != nil {
			select {
			case entries <- entry:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if p.conf.MaxGames > 0 && report.Qualifying >= p.conf.MaxGames {
			report.CapReached = true
			p.logger.Info().Int("games", report.Qualifying).Msg("game cap reached")
			return nil
		}
	}
}

func newEntry(rec *pgn.Record) manifest.Entry {
	e := manifest.Entry{
		Ordinal:     int64(rec.Ordinal),
		Line:        int64(rec.Line),
		WhiteRating: int32(rec.White.Int()),
		BlackRating: int32(rec.Black.Int()),
		Qualifying:  rec.Qualifying,
		Moves:       int32(len(rec.Moves)),
		Status:      manifest.Rejected,
	}
	if rec.Qualifying {
		e.Status = manifest.Encoded
	}
	return e
}
