// Package statetest provides helper functions to create tests using the game state.
package statetest

import (
	"fmt"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"strings"
)

// BuildBoard with the hazards at the given positions. It panics if the layout is invalid,
// since it's meant for tests with hand-written layouts.
func BuildBoard(width, height int, hazards ...Pos) (b *Board) {
	b = NewBoardWithSeed(0)
	if err := b.SetupWithHazards(width, height, hazards); err != nil {
		panic(fmt.Sprintf("statetest.BuildBoard(%d, %d, %v): %v", width, height, hazards, err))
	}
	return
}

// Sprint returns a text representation of the board, one row per line:
// "-" hidden, "F" flagged, "." revealed with no adjacent hazards, digits for revealed
// counts and "*" for revealed hazards. Hidden hazards that are not flagged are shown as "x"
// if the board is in debug mode or the match is over.
func Sprint(b *Board) string {
	var sb strings.Builder
	width, height := b.Dimensions()
	for y := range height {
		for x := range width {
			view, err := b.CellView(x, y)
			if err != nil {
				panic(err)
			}
			switch {
			case view.Visibility == Revealed && view.HasHazard:
				sb.WriteByte('*')
			case view.Visibility == Revealed && view.AdjacentHazards == 0:
				sb.WriteByte('.')
			case view.Visibility == Revealed:
				sb.WriteByte(byte('0' + view.AdjacentHazards))
			case view.Visibility == Flagged:
				sb.WriteByte('F')
			case view.HasHazard:
				sb.WriteByte('x')
			default:
				sb.WriteByte('-')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PrintBoard prints the board with Sprint, with the status in the first line.
func PrintBoard(b *Board) {
	fmt.Printf("Status: %s, revealed %d/%d, flags %d\n%s", b.Status(), b.RevealedSafeCount(), b.SafeCellTotal(),
		b.FlagCount(), Sprint(b))
}
