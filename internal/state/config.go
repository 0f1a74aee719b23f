package state

import (
	"github.com/janpfeifer/sweepGo/internal/generics"
	"github.com/janpfeifer/sweepGo/internal/parameters"
	"github.com/pkg/errors"
	"strings"
)

// GameConfig holds the parameters of Board.Setup.
type GameConfig struct {
	Width, Height, Hazards int
}

// Presets of the classic difficulty levels.
var Presets = map[string]GameConfig{
	"beginner": {Width: 9, Height: 9, Hazards: 10},
	"medium":   {Width: 16, Height: 16, Hazards: 40},
	"expert":   {Width: 16, Height: 30, Hazards: 99},
}

// DefaultGameConfig is used when no configuration is given.
const DefaultGameConfig = "beginner"

// Validate returns a *ConfigurationError if Board.Setup would reject the configuration.
func (c GameConfig) Validate() error {
	return validateConfig(c.Width, c.Height, c.Hazards)
}

// Setup the board with the configuration.
func (c GameConfig) Setup(b *Board) error {
	return b.Setup(c.Width, c.Height, c.Hazards)
}

// PresetNames returns the sorted names of the presets.
func PresetNames() []string {
	var names []string
	for name := range generics.SortedKeys(Presets) {
		names = append(names, name)
	}
	return names
}

// ParseGameConfig converts a configuration string to a GameConfig.
//
// The configuration is either one of the Presets names or "custom" followed by a colon (":")
// and a comma-separated list of parameters, e.g.: "custom:width=30,height=16,hazards=99".
// A preset can also be followed by parameters overriding some of its values, e.g.:
// "expert:hazards=120". If empty, DefaultGameConfig is used.
func ParseGameConfig(config string) (GameConfig, error) {
	config = strings.TrimSpace(config)
	if config == "" {
		config = DefaultGameConfig
	}
	name, paramsStr := config, ""
	if split := strings.Index(config, ":"); split != -1 {
		name, paramsStr = config[:split], config[split+1:]
	}
	name = strings.ToLower(strings.TrimSpace(name))

	var gameConfig GameConfig
	if name != "custom" {
		var found bool
		gameConfig, found = Presets[name]
		if !found {
			return GameConfig{}, errors.Errorf("unknown game configuration %q, valid values are %q or \"custom:width=...,height=...,hazards=...\"",
				name, PresetNames())
		}
	}
	if paramsStr == "" && name == "custom" {
		return GameConfig{}, errors.New("\"custom\" game configuration requires width, height and hazards parameters")
	}

	params := parameters.NewFromConfigString(paramsStr)
	var err error
	for _, field := range []struct {
		key   string
		value *int
	}{
		{"width", &gameConfig.Width},
		{"height", &gameConfig.Height},
		{"hazards", &gameConfig.Hazards},
	} {
		*field.value, err = parameters.PopParamOr(params, field.key, *field.value)
		if err != nil {
			return GameConfig{}, errors.WithMessagef(err, "game configuration %q", config)
		}
	}
	if err = parameters.CheckAllUsed(params); err != nil {
		return GameConfig{}, errors.WithMessagef(err, "game configuration %q", config)
	}
	if err = gameConfig.Validate(); err != nil {
		return GameConfig{}, errors.WithMessagef(err, "game configuration %q", config)
	}
	return gameConfig, nil
}
