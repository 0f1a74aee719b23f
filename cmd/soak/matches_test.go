package main

import (
	"context"
	"flag"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestPlayRandomMatch(t *testing.T) {
	config := Presets["beginner"]
	for seed := range uint64(20) {
		status, moves, revealed, err := playRandomMatch(context.Background(), seed, config, 0.3)
		require.NoError(t, err, "seed=%d", seed)
		assert.True(t, status.IsFinished())
		assert.Greater(t, moves, 0)
		if status == Won {
			assert.Equal(t, config.Width*config.Height-config.Hazards, revealed)
		}
	}
}

func TestRunner(t *testing.T) {
	r := &runner{
		config:      GameConfig{Width: 8, Height: 8, Hazards: 6},
		numMatches:  50,
		parallelism: 4,
		seed:        7,
		flagRate:    0.1,
	}
	require.NoError(t, r.run(context.Background()))
	assert.Equal(t, 50, r.finished)
	assert.Equal(t, 50, r.won+r.lost)
	assert.Contains(t, r.progress(), "50 of 50 matches finished")
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &runner{config: Presets["beginner"], numMatches: 10, parallelism: 2}
	require.NoError(t, r.run(ctx))
	assert.Equal(t, 0, r.finished)
}

func TestRunWritesProfileOnFailure(t *testing.T) {
	memProfile := filepath.Join(t.TempDir(), "mem.prof")
	require.NoError(t, flag.Set("mem_profile", memProfile))
	defer func() { _ = flag.Set("mem_profile", "") }()
	*flagGame, *flagNumMatches, *flagParallelism, *flagProgress = "beginner", 3, 1, false

	playMatch = func(context.Context, uint64, GameConfig, float64) (Status, int, int, error) {
		return Running, 0, 0, errors.New("invariant broken")
	}
	defer func() { playMatch = playRandomMatch }()

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invariant broken")
	info, err := os.Stat(memProfile)
	require.NoError(t, err, "memory profile must be written when the soak fails")
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunInvalidFlags(t *testing.T) {
	*flagGame, *flagProgress = "custom:width=0,height=3,hazards=1", false
	defer func() { *flagGame = "expert" }()
	assert.ErrorIs(t, run(), ErrInvalidDimensions)

	*flagGame, *flagFlagRate = "beginner", 1.5
	defer func() { *flagFlagRate = 0.2 }()
	assert.Error(t, run())
}
