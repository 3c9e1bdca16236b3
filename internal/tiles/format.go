package tiles

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilegrid/internal/core"
)

// Sheet is the YAML form of a map: one string per row and a legend from
// characters to tile type names.
type Sheet struct {
	Name   string            `yaml:"name,omitempty"`
	Legend map[string]string `yaml:"legend"`
	Rows   []string          `yaml:"rows"`
}

// DefaultLegend is used when a sheet has no legend.
func DefaultLegend() map[string]string {
	return map[string]string{
		".": "grass",
		"c": "coal",
		"~": "water",
		"#": "rock",
	}
}

// Build turns a sheet into a Map. Rows shorter than the widest row are padded
// with grass.
func (s Sheet) Build() (*Map, error) {
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("tiles: map has no rows")
	}

	legend := s.Legend
	if len(legend) == 0 {
		legend = DefaultLegend()
	}
	types := make(map[rune]Type, len(legend))
	for key, name := range legend {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("tiles: legend key %q must be a single character", key)
		}
		t, err := ParseType(name)
		if err != nil {
			return nil, err
		}
		types[r] = t
	}

	width := 0
	for _, row := range s.Rows {
		width = max(width, utf8.RuneCountInString(row))
	}

	m := NewMap(width, len(s.Rows), Grass)
	for y, row := range s.Rows {
		x := 0
		for _, r := range row {
			t, ok := types[r]
			if !ok {
				return nil, fmt.Errorf("tiles: row %d: unknown tile %q", y, r)
			}
			m.Set(core.C(x, y), t)
			x++
		}
	}
	return m, nil
}

// Parse decodes a YAML map sheet.
func Parse(data []byte) (*Map, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("tiles: yaml unmarshal: %w", err)
	}
	return s.Build()
}

// LoadFile reads and parses a YAML map file.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tiles: reading file %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tiles: parsing file %s: %w", path, err)
	}
	return m, nil
}
