package tui

import (
	"github.com/gdamore/tcell/v2"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/janpfeifer/sweepGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func cellText(t *TUI, x, y int) string {
	return strings.TrimSpace(t.table.GetCell(y, x).Text)
}

func TestTUIMoves(t *testing.T) {
	b := statetest.BuildBoard(4, 1, Pos{3, 0})
	ui := New(b, GameConfig{Width: 4, Height: 1, Hazards: 1})
	assert.Equal(t, "-", cellText(ui, 0, 0))

	// Flag the hazard.
	ui.table.Select(0, 3)
	assert.Nil(t, ui.handleKey(tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone)))
	assert.Equal(t, "F", cellText(ui, 3, 0))
	assert.Equal(t, 1, b.FlagCount())

	// Reveal the first cell: flood fill wins the match.
	ui.table.Select(0, 0)
	assert.Nil(t, ui.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, Won, b.Status())
	assert.Equal(t, ".", cellText(ui, 0, 0))
	assert.Equal(t, "1", cellText(ui, 2, 0))
	assert.Contains(t, ui.status.GetText(true), "You won")

	// Further moves are rejected and reported.
	ui.table.Select(0, 3)
	ui.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Contains(t, ui.status.GetText(true), "game over")
	assert.Equal(t, Won, b.Status())

	// New game.
	ui.handleKey(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	require.True(t, b.IsReady())
	assert.Equal(t, Running, b.Status())
	assert.Equal(t, "-", cellText(ui, 0, 0))
}

func TestTUIPassesOtherKeys(t *testing.T) {
	b := statetest.BuildBoard(3, 3, Pos{1, 1})
	ui := New(b, GameConfig{Width: 3, Height: 3, Hazards: 1})
	event := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Equal(t, event, ui.handleKey(event))
}
