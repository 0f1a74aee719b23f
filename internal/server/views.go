package server

import (
	. "github.com/janpfeifer/sweepGo/internal/state"
	"strings"
)

// CellJSON is the public view of one cell. Count is only set for revealed safe cells, and
// Hazard only when the hazard is disclosed (revealed, debug or finished match).
type CellJSON struct {
	State  string `json:"state"`
	Count  int    `json:"count,omitempty"`
	Hazard bool   `json:"hazard,omitempty"`
}

// GameView is the JSON representation of a match, as returned by every endpoint.
type GameView struct {
	ID               string       `json:"id"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	Hazards          int          `json:"hazards"`
	Status           string       `json:"status"`
	HazardsRemaining int          `json:"hazards_remaining"`
	RevealedSafe     int          `json:"revealed_safe"`
	SafeTotal        int          `json:"safe_total"`
	Cells            [][]CellJSON `json:"cells"`
}

// newGameView builds the view of the board. It must be called with the session lock held.
func newGameView(id string, b *Board) GameView {
	width, height := b.Dimensions()
	view := GameView{
		ID:               id,
		Width:            width,
		Height:           height,
		Hazards:          b.HazardCount(),
		Status:           strings.ToLower(b.Status().String()),
		HazardsRemaining: b.HazardsRemaining(),
		RevealedSafe:     b.RevealedSafeCount(),
		SafeTotal:        b.SafeCellTotal(),
		Cells:            make([][]CellJSON, height),
	}
	for y := range height {
		row := make([]CellJSON, width)
		for x := range width {
			cell, err := b.CellView(x, y)
			if err != nil {
				// Board always ready in a session.
				continue
			}
			row[x] = CellJSON{
				State:  strings.ToLower(cell.Visibility.String()),
				Hazard: cell.HasHazard,
			}
			if cell.Visibility == Revealed && !cell.HasHazard {
				row[x].Count = cell.AdjacentHazards
			}
		}
		view.Cells[y] = row
	}
	return view
}
