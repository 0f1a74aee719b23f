package state_test

import (
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseGameConfig(t *testing.T) {
	config, err := ParseGameConfig("")
	require.NoError(t, err)
	assert.Equal(t, GameConfig{Width: 9, Height: 9, Hazards: 10}, config)

	config, err = ParseGameConfig("Expert")
	require.NoError(t, err)
	assert.Equal(t, GameConfig{Width: 16, Height: 30, Hazards: 99}, config)

	config, err = ParseGameConfig("medium:hazards=50")
	require.NoError(t, err)
	assert.Equal(t, GameConfig{Width: 16, Height: 16, Hazards: 50}, config)

	config, err = ParseGameConfig("custom:width=30, height=16,hazards=99")
	require.NoError(t, err)
	assert.Equal(t, GameConfig{Width: 30, Height: 16, Hazards: 99}, config)

	b := NewBoard()
	require.NoError(t, config.Setup(b))
	assert.Equal(t, 99, b.HazardCount())
}

func TestParseGameConfigErrors(t *testing.T) {
	for _, config := range []string{
		"impossible",
		"custom",
		"custom:width=10,height=10",
		"custom:width=ten,height=10,hazards=3",
		"beginner:mines=3",
	} {
		_, err := ParseGameConfig(config)
		assert.Error(t, err, "config %q", config)
	}

	_, err := ParseGameConfig("custom:width=5,height=5,hazards=25")
	assert.ErrorIs(t, err, ErrInvalidHazardCount)
	_, err = ParseGameConfig("custom:width=0,height=5,hazards=2")
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"beginner", "expert", "medium"}, PresetNames())
	for _, name := range PresetNames() {
		require.NoError(t, Presets[name].Validate(), "preset %q", name)
	}
}
