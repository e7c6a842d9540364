package exercisetype

import (
	"math"
	"strings"
)

// Band is one entry of the band color table
type Band struct {
	Color      string  `toml:"color" json:"color"`
	Resistance float64 `toml:"resistance" json:"resistance"`
}

// DefaultBands is used when no training config file provides a table
var DefaultBands = []Band{
	{Color: "yellow", Resistance: 5},
	{Color: "red", Resistance: 10},
	{Color: "green", Resistance: 15},
	{Color: "blue", Resistance: 20},
	{Color: "black", Resistance: 30},
	{Color: "purple", Resistance: 40},
}

// BandTable maps band colors to the resistance used for internal comparison.
// The UI keeps showing the color name.
type BandTable struct {
	bands   []Band
	byColor map[string]float64
}

// NewBandTable builds a table, color lookups are case-insensitive
func NewBandTable(bands []Band) BandTable {
	t := BandTable{
		bands:   make([]Band, 0, len(bands)),
		byColor: make(map[string]float64, len(bands)),
	}
	for _, b := range bands {
		color := strings.ToLower(strings.TrimSpace(b.Color))
		if color == "" {
			continue
		}
		t.bands = append(t.bands, Band{Color: color, Resistance: b.Resistance})
		t.byColor[color] = b.Resistance
	}
	return t
}

// Resistance returns the configured value for a color
func (t BandTable) Resistance(color string) (float64, bool) {
	r, ok := t.byColor[strings.ToLower(strings.TrimSpace(color))]
	return r, ok
}

// ColorFor returns the color configured for an exact resistance, "" if none
func (t BandTable) ColorFor(resistance float64) string {
	for _, b := range t.bands {
		if math.Abs(b.Resistance-resistance) < 1e-9 {
			return b.Color
		}
	}
	return ""
}

// Colors lists the configured colors in table order
func (t BandTable) Colors() []string {
	colors := make([]string, len(t.bands))
	for i, b := range t.bands {
		colors[i] = b.Color
	}
	return colors
}

// Bands returns a copy of the configured table
func (t BandTable) Bands() []Band {
	out := make([]Band, len(t.bands))
	copy(out, t.bands)
	return out
}
