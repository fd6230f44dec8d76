// Command planegen writes move prediction datasets from a rated game archive.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/planegen"
	"github.com/planegen/game"
	"github.com/planegen/pgn"
)

var (
	configPath   = flag.String("config", "", "optional JSON config file")
	pgnPath      = flag.String("pgn", "", "game archive (.pgn, .pgn.zst or .pgn.bz2)")
	outDir       = flag.String("out", ".", "directory the stream files are written to")
	minRating    = flag.Uint64("min_rating", 2000, "minimum rating of both players")
	maxGames     = flag.Int("max_games", 20000, "qualifying games to process, 0 for all")
	side         = flag.String("side", "white", "side whose moves become examples")
	failFast     = flag.Bool("fail_fast", false, "abort on the first unplayable move instead of skipping the game")
	manifestPath = flag.String("manifest", "", "optional Parquet manifest of every game")
	verbose      = flag.Bool("v", false, "log every encoded plane set")
)

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *pgnPath == "" {
		logger.Fatal().Msg("please include a path to the archive with -pgn")
	}

	conf := planegen.DefaultConfig()
	if *configPath != "" {
		var err error
		if conf, err = planegen.LoadConfig(*configPath); err != nil {
			logger.Fatal().Err(err).Msg("load config")
		}
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			conf.OutputDir = *outDir
		case "min_rating":
			flagErr = conf.SetMinRating(*minRating)
		case "max_games":
			conf.MaxGames = *maxGames
		case "side":
			conf.Side = *side
		case "fail_fast":
			conf.FailFast = *failFast
		case "manifest":
			conf.Manifest = *manifestPath
		}
	})
	if flagErr != nil {
		logger.Fatal().Err(flagErr).Msg("invalid flag")
	}
	if err := conf.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	archive, err := pgn.Open(*pgnPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open archive")
	}
	defer archive.Close()
	logger.Info().
		Str("path", archive.Path).
		Str("compression", string(archive.Compression)).
		Str("size", archive.Size.String()).
		Msg("archive opened")

	sinks, err := planegen.OpenSinks(conf.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open output streams")
	}

	p, err := planegen.New(conf, game.NewChess, sinks.Sinks, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create pipeline")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, runErr := p.Run(ctx, archive)
	if err := sinks.Close(); err != nil {
		logger.Error().Err(err).Msg("close output streams")
		if runErr == nil {
			runErr = err
		}
	}
	report.Log(logger)
	if runErr != nil {
		logger.Fatal().Err(runErr).Msg("run failed")
	}
}
