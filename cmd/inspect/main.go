// Command inspect loads a generated stream file into tensors and prints
// some of its records.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/planegen"
)

var (
	streamPath = flag.String("stream", "", "stream file written by planegen, e.g. out/selector.csv")
	show       = flag.Int("show", 1, "number of records to print")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	f, err := os.Open(*streamPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open stream")
	}
	defer f.Close()

	examples, err := planegen.ReadExamples(f)
	if err != nil {
		logger.Fatal().Err(err).Msg("read stream")
	}
	Xs, Policies, err := planegen.Stack(examples)
	if err != nil {
		logger.Fatal().Err(err).Msg("stack examples")
	}
	logger.Info().
		Int("examples", len(examples)).
		Str("inputs", fmt.Sprint(Xs.Shape())).
		Str("policies", fmt.Sprint(Policies.Shape())).
		Msg("stream loaded")

	// The selector stream carries the origin square, piece streams the destination.
	target := strings.TrimSuffix(filepath.Base(*streamPath), filepath.Ext(*streamPath)) != planegen.Selector
	for i := 0; i < *show && i < len(examples); i++ {
		ps := examples[i].PlaneSet(target)
		fmt.Printf("Record %d\n%s\n", i+1, ps.String())
	}
}
