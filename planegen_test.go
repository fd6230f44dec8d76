package planegen

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planegen/game"
	"github.com/planegen/manifest"
)

func archive(games ...[3]string) string {
	var b strings.Builder
	for _, g := range games {
		b.WriteString(`[Event "Rated Blitz game"]` + "\n")
		b.WriteString(`[WhiteElo "` + g[0] + `"]` + "\n")
		b.WriteString(`[BlackElo "` + g[1] + `"]` + "\n\n")
		b.WriteString(g[2] + "\n\n")
	}
	return b.String()
}

func run(t *testing.T, conf Config, text string) (*Report, *memSinks, error) {
	t.Helper()
	mem := newMemSinks()
	p, err := New(conf, game.NewChess, mem.Sinks(), zerolog.Nop())
	require.NoError(t, err)
	report, err := p.Run(context.Background(), strings.NewReader(text))
	return report, mem, err
}

func TestRunBoundaryScenario(t *testing.T) {
	text := strings.Join([]string{
		`[WhiteElo "2100"]`,
		`[BlackElo "2200"]`,
		`1. e4 e5 2. Nf3 *`,
		`[WhiteElo "1500"]`,
		`[BlackElo "2500"]`,
		`1. d4 *`,
	}, "\n")

	report, mem, err := run(t, DefaultConfig(), text)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Games)
	assert.Equal(t, 1, report.Qualifying)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.Encoded)
	assert.Equal(t, 2, report.Examples)
	assert.Equal(t, 6, report.Lines)
	assert.Equal(t, map[string]int{Selector: 2, "pawn": 1, "knight": 1}, report.Rows)

	assert.Len(t, lines(&mem.selector), 4)
	assert.Len(t, lines(mem.pieces[game.Pawn]), 2)
	assert.Len(t, lines(mem.pieces[game.Knight]), 2)

	mean, std := report.Ratings()
	assert.InDelta(t, 2150, mean, 1e-9)
	assert.InDelta(t, 70.71, std, 0.01)
}

func TestRunRejectsUnratedGames(t *testing.T) {
	text := archive(
		[3]string{"1900", "2400", "1. e4 e5 2. Nf3 Nc6 1-0"},
		[3]string{"?", "2400", "1. e4 e5 2. Nf3 Nc6 1-0"},
	)
	report, mem, err := run(t, DefaultConfig(), text)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rejected)
	assert.Zero(t, report.Examples)
	assert.Zero(t, mem.selector.Len())
	for _, b := range mem.pieces {
		assert.Zero(t, b.Len())
	}
}

func TestRunCountsDesignatedMoves(t *testing.T) {
	text := archive([3]string{"2100", "2100", "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 1/2-1/2"})

	report, mem, err := run(t, DefaultConfig(), text)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Examples)
	assert.Len(t, lines(&mem.selector), 10)
	assert.Equal(t, map[string]int{Selector: 5, "pawn": 1, "knight": 1, "bishop": 2, "king": 1}, report.Rows)

	conf := DefaultConfig()
	conf.Side = "black"
	report, mem, err = run(t, conf, text)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Examples)
	assert.Equal(t, map[string]int{Selector: 5, "pawn": 2, "knight": 2, "bishop": 1}, report.Rows)

	// From Black's view its own pieces are positive: e7 is row 1.
	sel := lines(&mem.selector)
	board, err := ParseGrid(sel[0])
	require.NoError(t, err)
	assert.EqualValues(t, 1, board[1*game.ColNum+4])
}

func TestRunCap(t *testing.T) {
	text := archive(
		[3]string{"2100", "2100", "1. e4 e5 *"},
		[3]string{"1500", "1500", "1. d4 d5 *"},
		[3]string{"2100", "2100", "1. c4 e5 *"},
	)
	conf := DefaultConfig()
	conf.MaxGames = 1
	report, mem, err := run(t, conf, text)
	require.NoError(t, err)
	assert.True(t, report.CapReached)
	assert.Equal(t, 1, report.Qualifying)
	assert.Equal(t, 1, report.Games)

	sel := lines(&mem.selector)
	require.Len(t, sel, 2)
	e2, _ := game.ParseSquare("e2")
	selected, err := ParseGrid(sel[1])
	require.NoError(t, err)
	assert.Equal(t, oneHot(e2.Cell()), selected)

	conf.MaxGames = 0
	report, _, err = run(t, conf, text)
	require.NoError(t, err)
	assert.False(t, report.CapReached)
	assert.Equal(t, 2, report.Qualifying)
}

func TestRunSkipsUnplayableGame(t *testing.T) {
	text := archive(
		[3]string{"2100", "2100", "1. e4 e5 2. Ke5 Nc6 *"},
		[3]string{"2100", "2100", "1. d4 d5 2. c4 *"},
	)
	report, mem, err := run(t, DefaultConfig(), text)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Encoded)
	assert.Equal(t, 2, report.Examples)
	assert.Len(t, lines(&mem.selector), 4)
	assert.Equal(t, map[string]int{Selector: 2, "pawn": 2}, report.Rows)
}

func TestRunFailFast(t *testing.T) {
	text := archive(
		[3]string{"2100", "2100", "1. e4 e5 2. Ke5 Nc6 *"},
		[3]string{"2100", "2100", "1. d4 d5 2. c4 *"},
	)
	conf := DefaultConfig()
	conf.FailFast = true
	report, mem, err := run(t, conf, text)
	require.Error(t, err)

	var me *MoveError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 3, me.Ply)
	assert.Equal(t, "Ke5", me.Token)
	assert.Equal(t, 1, report.Qualifying)
	assert.Zero(t, report.Encoded)
	assert.Zero(t, mem.selector.Len())
}

func TestRunWritesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.parquet")
	conf := DefaultConfig()
	conf.Manifest = path
	text := archive(
		[3]string{"2100", "2200", "1. e4 e5 2. Nf3 *"},
		[3]string{"1500", "2200", "1. e4 e5 *"},
		[3]string{"2100", "2200", "1. e4 e5 2. Ke5 *"},
	)
	_, _, err := run(t, conf, text)
	require.NoError(t, err)

	entries, err := manifest.Read(path, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, manifest.Encoded, entries[0].Status)
	assert.EqualValues(t, 2, entries[0].Encoded)
	assert.EqualValues(t, 3, entries[0].Moves)
	assert.EqualValues(t, 2100, entries[0].WhiteRating)

	assert.Equal(t, manifest.Rejected, entries[1].Status)
	assert.False(t, entries[1].Qualifying)

	assert.Equal(t, manifest.Skipped, entries[2].Status)
	assert.Contains(t, entries[2].Reason, "Ke5")
	assert.Zero(t, entries[2].Encoded)
}

func TestRunCanceled(t *testing.T) {
	mem := newMemSinks()
	p, err := New(DefaultConfig(), game.NewChess, mem.Sinks(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, strings.NewReader(archive([3]string{"2100", "2100", "1. e4 *"})))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mem.selector.Len())
}

func TestRunFormatError(t *testing.T) {
	_, _, err := run(t, DefaultConfig(), "[WhiteElo]\n1. e4 *\n")
	assert.Error(t, err)
}

func TestNewRejectsIncompleteSinks(t *testing.T) {
	mem := newMemSinks()
	sinks := mem.Sinks()
	delete(sinks.Pieces, game.Queen)
	_, err := New(DefaultConfig(), game.NewChess, sinks, zerolog.Nop())
	assert.Error(t, err)
}
