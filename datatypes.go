package planegen

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/planegen/game"
)

// Config for a dataset generation run.
type Config struct {
	MinRating uint16 `json:"min_rating"` // both players must be rated at least this
	MaxGames  int    `json:"max_games"`  // qualifying games to process; 0 for no cap
	Side      string `json:"side"`       // side whose moves become examples
	FailFast  bool   `json:"fail_fast"`  // abort the run on the first unplayable move
	Width     int    `json:"width"`      // minimum width of a serialized cell

	OutputDir string `json:"output_dir"`
	Manifest  string `json:"manifest"` // optional Parquet manifest path
}

func DefaultConfig() Config {
	return Config{
		MinRating: 2000,
		MaxGames:  20000,
		Side:      game.White.String(),
		Width:     2,
		OutputDir: ".",
	}
}

func (c Config) Validate() error {
	if _, err := game.ParseSide(c.Side); err != nil {
		return errors.WithMessage(err, "side")
	}
	if c.MaxGames < 0 {
		return errors.Errorf("max_games must not be negative, got %d", c.MaxGames)
	}
	if c.Width < 2 {
		return errors.Errorf("width must be at least 2, got %d", c.Width)
	}
	return nil
}

// SetMinRating sets MinRating, rejecting values a rating cannot hold.
func (c *Config) SetMinRating(v uint64) error {
	if v > math.MaxUint16 {
		return errors.Errorf("min_rating must be at most %d, got %d", math.MaxUint16, v)
	}
	c.MinRating = uint16(v)
	return nil
}

func (c Config) IsValid() bool { return c.Validate() == nil }

// EncodingSide returns the parsed Side. It is White for an invalid config.
func (c Config) EncodingSide() game.Side {
	s, err := game.ParseSide(c.Side)
	if err != nil {
		return game.White
	}
	return s
}

// LoadConfig reads a JSON config. Fields absent from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithStack(err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Example is one serialized record read back from a stream.
type Example struct {
	Board  []float32 // occupancy planes in game.SerialOrder
	Policy []float32 // one-hot square
}
