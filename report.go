package planegen

import (
	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"

	"github.com/planegen/pgn"
)

// Report summarises a run.
type Report struct {
	Lines     int
	BytesRead bytesize.ByteSize

	Games      int // records that reached a boundary
	Rejected   int // records below the rating threshold
	Qualifying int
	Encoded    int // qualifying games fully replayed
	Skipped    int // qualifying games dropped on a bad move
	Examples   int // plane sets written

	Rows       map[string]int // records per stream
	CapReached bool

	ratings []float64
}

func (r *Report) addQualifying(rec *pgn.Record) {
	r.Qualifying++
	r.ratings = append(r.ratings, float64(rec.White.Value), float64(rec.Black.Value))
}

// Ratings returns the mean and standard deviation of the ratings of every
// player in a qualifying game.
func (r *Report) Ratings() (mean, std float64) {
	switch len(r.ratings) {
	case 0:
		return 0, 0
	case 1:
		return r.ratings[0], 0
	}
	return stat.MeanStdDev(r.ratings, nil)
}

// Log writes the report as a single event.
func (r *Report) Log(logger zerolog.Logger) {
	mean, std := r.Ratings()
	e := logger.Info().
		Int("lines", r.Lines).
		Str("read", r.BytesRead.String()).
		Int("games", r.Games).
		Int("rejected", r.Rejected).
		Int("qualifying", r.Qualifying).
		Int("encoded", r.Encoded).
		Int("skipped", r.Skipped).
		Int("examples", r.Examples).
		Float64("rating_mean", mean).
		Float64("rating_std", std).
		Bool("cap_reached", r.CapReached)
	streams := maps.Keys(r.Rows)
	slices.Sort(streams)
	for _, s := range streams {
		e = e.Int("rows_"+s, r.Rows[s])
	}
	e.Msg("run finished")
}
