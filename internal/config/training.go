package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/mansoorceksport/liftlog/internal/exercisetype"
)

// TrainingConfig is the static domain configuration read from TOML:
//
//	weight_unit = "kg"
//
//	[[bands]]
//	color = "red"
//	resistance = 10
type TrainingConfig struct {
	WeightUnit string              `toml:"weight_unit"`
	Bands      []exercisetype.Band `toml:"bands"`
}

// DefaultTraining is used when TRAINING_CONFIG_PATH is not set
func DefaultTraining() *TrainingConfig {
	bands := make([]exercisetype.Band, len(exercisetype.DefaultBands))
	copy(bands, exercisetype.DefaultBands)
	return &TrainingConfig{
		WeightUnit: exercisetype.DefaultWeightUnit,
		Bands:      bands,
	}
}

// LoadTraining decodes a TOML file on top of the defaults. An empty path
// returns the defaults. A file without bands keeps the default table.
func LoadTraining(path string) (*TrainingConfig, error) {
	cfg := DefaultTraining()
	if path == "" {
		return cfg, nil
	}

	var fromFile TrainingConfig
	if _, err := toml.DecodeFile(path, &fromFile); err != nil {
		return nil, fmt.Errorf("decode training config %s: %w", path, err)
	}
	if fromFile.WeightUnit != "" {
		cfg.WeightUnit = fromFile.WeightUnit
	}
	if len(fromFile.Bands) > 0 {
		cfg.Bands = fromFile.Bands
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown units and malformed band tables
func (c *TrainingConfig) Validate() error {
	switch c.WeightUnit {
	case "lbs", "kg":
	default:
		return fmt.Errorf("weight_unit must be lbs or kg, got %q", c.WeightUnit)
	}

	seen := make(map[string]bool, len(c.Bands))
	for _, b := range c.Bands {
		if b.Color == "" {
			return fmt.Errorf("band without color")
		}
		if b.Resistance <= 0 {
			return fmt.Errorf("band %s: resistance must be positive", b.Color)
		}
		if seen[b.Color] {
			return fmt.Errorf("band %s defined twice", b.Color)
		}
		seen[b.Color] = true
	}
	return nil
}

// BandTable builds the lookup table used by the strategies
func (c *TrainingConfig) BandTable() exercisetype.BandTable {
	return exercisetype.NewBandTable(c.Bands)
}
