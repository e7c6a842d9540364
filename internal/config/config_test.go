package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTraining_Defaults(t *testing.T) {
	cfg, err := LoadTraining("")
	require.NoError(t, err)
	assert.Equal(t, "lbs", cfg.WeightUnit)

	r, ok := cfg.BandTable().Resistance("red")
	assert.True(t, ok)
	assert.Equal(t, 10.0, r)
}

func TestLoadTraining_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training.toml")
	content := `
weight_unit = "kg"

[[bands]]
color = "orange"
resistance = 7.5

[[bands]]
color = "grey"
resistance = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadTraining(path)
	require.NoError(t, err)
	assert.Equal(t, "kg", cfg.WeightUnit)
	assert.Equal(t, []string{"orange", "grey"}, cfg.BandTable().Colors())
}

func TestLoadTraining_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unit", content: `weight_unit = "stone"`},
		{name: "non positive resistance", content: "[[bands]]\ncolor = \"red\"\nresistance = 0\n"},
		{name: "duplicate color", content: "[[bands]]\ncolor = \"red\"\nresistance = 1\n[[bands]]\ncolor = \"red\"\nresistance = 2\n"},
		{name: "malformed toml", content: "weight_unit = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "training.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadTraining(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_DATABASE", "liftlog_test")
	t.Setenv("LOCK_TTL_SECONDS", "30")
	t.Setenv("LOG_FORMAT_JSON", "yes")
	t.Setenv("TRAINING_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "liftlog_test", cfg.MongoDB.Database)
	assert.Equal(t, int64(30), cfg.Detection.LockTTLSeconds)
	assert.True(t, cfg.Logging.FormatJSON)
	assert.Equal(t, "lbs", cfg.Training.WeightUnit)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		MongoDB:   MongoDBConfig{URI: "mongodb://localhost", Database: "x"},
		Detection: DetectionConfig{LockTTLSeconds: 0, MaxRetries: 3},
	}
	assert.Error(t, cfg.Validate())

	cfg.Detection.LockTTLSeconds = 5
	assert.NoError(t, cfg.Validate())
}
