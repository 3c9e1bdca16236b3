package config

import "strings"

// DifficultyPreset scales the economy of a colony.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficultyPreset parses a preset name. Unknown names map to normal.
func ParseDifficultyPreset(s string) DifficultyPreset {
	switch DifficultyPreset(strings.ToLower(s)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyNormal
	}
}

// multipliers returns the starting balance and cost multipliers of a preset.
func (p DifficultyPreset) multipliers() (starting, cost float64) {
	switch p {
	case DifficultyEasy:
		return 2.0, 0.75
	case DifficultyHard:
		return 0.5, 1.5
	default:
		return 1.0, 1.0
	}
}

// ApplyPreset scales starting balances and blueprint costs in place.
func ApplyPreset(cfg *ColonyConfig, preset DifficultyPreset) {
	starting, cost := preset.multipliers()

	scaled := make(map[string]float64, len(cfg.Economy.Starting))
	for k, v := range cfg.Economy.Starting {
		scaled[k] = v * starting
	}
	cfg.Economy.Starting = scaled

	for i := range cfg.Blueprints {
		costs := make(map[string]float64, len(cfg.Blueprints[i].Cost))
		for k, v := range cfg.Blueprints[i].Cost {
			costs[k] = v * cost
		}
		cfg.Blueprints[i].Cost = costs
	}
}
