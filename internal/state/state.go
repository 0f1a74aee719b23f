// Package state holds the rules engine of the game: the Board with its hidden hazards,
// the per-cell visibility and the status of the match.
//
// A Board is owned by a single caller and is not safe for concurrent use. Front-ends
// that share one (the HTTP server, for instance) must serialize access themselves.
package state

import (
	"fmt"
	"iter"
	"sort"
)

// Action a player can take on a cell.
type Action uint8

const (
	// Reveal uncovers the cell. If it holds a hazard the match is lost, otherwise the
	// connected region of zero-count cells is flood-filled.
	Reveal Action = iota

	// ToggleFlag marks or unmarks a cell as a suspected hazard. Flags are advisory:
	// a flagged cell can still be revealed.
	ToggleFlag

	// LastAction is not a valid action, it marks the number of actions.
	LastAction
)

var actionNames = [LastAction]string{"Reveal", "ToggleFlag"}

// String returns the action name.
func (a Action) String() string {
	if a >= LastAction {
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
	return actionNames[a]
}

// Visibility of a cell from the point of view of the player.
type Visibility uint8

const (
	Hidden Visibility = iota
	Flagged
	Revealed
)

var visibilityNames = [...]string{"Hidden", "Flagged", "Revealed"}

func (v Visibility) String() string {
	if int(v) >= len(visibilityNames) {
		return fmt.Sprintf("Visibility(%d)", uint8(v))
	}
	return visibilityNames[v]
}

// Status of a match. Running is the only non-terminal status, and once a match reaches
// Won or Lost it stays there until the Board is set up again.
type Status uint8

const (
	Running Status = iota
	Won
	Lost
)

var statusNames = [...]string{"Running", "Won", "Lost"}

func (s Status) String() string {
	if int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
	return statusNames[s]
}

// IsFinished returns whether the status is terminal.
func (s Status) IsFinished() bool {
	return s == Won || s == Lost
}

// Pos packages x, y position. X is the column and Y the row, both starting at 0.
type Pos [2]int

// X coordinate of the position.
func (pos Pos) X() int {
	return pos[0]
}

// Y coordinate of the position.
func (pos Pos) Y() int {
	return pos[1]
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// NumNeighbors of a position not on the border of the grid (the Moore neighborhood).
const NumNeighbors = 8

var neighborRelPositions = [NumNeighbors]Pos{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbours returns the 8 positions around pos, row by row. Positions may fall outside
// of any grid: see Board.NeighboursIter for the clipped version.
func (pos Pos) Neighbours() []Pos {
	neighbours := make([]Pos, NumNeighbors)
	for ii, rel := range neighborRelPositions {
		neighbours[ii] = Pos{pos[0] + rel[0], pos[1] + rel[1]}
	}
	return neighbours
}

// NeighboursIter iterates over the valid neighbours of pos: the Moore neighborhood clipped
// to the grid bounds, excluding pos itself.
//
// It's computed on demand, so there is no adjacency table stored in the Board.
func (b *Board) NeighboursIter(pos Pos) iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for _, rel := range neighborRelPositions {
			neighbour := Pos{pos[0] + rel[0], pos[1] + rel[1]}
			if !b.Contains(neighbour) {
				continue
			}
			if !yield(neighbour) {
				return
			}
		}
	}
}

// SortPositions sorts according to y first and then x.
func SortPositions(positions []Pos) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i][1] != positions[j][1] {
			return positions[i][1] < positions[j][1]
		}
		return positions[i][0] < positions[j][0]
	})
}

// PosStrings converts the positions to strings, in the given order.
func PosStrings(poss []Pos) []string {
	strs := make([]string, len(poss))
	for ii, pos := range poss {
		strs[ii] = pos.String()
	}
	return strs
}
