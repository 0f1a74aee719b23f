package state

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/sweepGo/internal/generics"
	"k8s.io/klog/v2"
)

// ValidateMove checks whether action can be played at x, y. It never changes the Board.
//
// It returns a *MoveError with kind NotReady, GameOver, OutOfBounds or AlreadyRevealed,
// checked in this order. Flagged cells are valid targets for both actions.
func (b *Board) ValidateMove(x, y int, action Action) error {
	pos := Pos{x, y}
	switch {
	case !b.ready:
		return &MoveError{Kind: NotReady, Pos: pos, Action: action}
	case b.status.IsFinished():
		return &MoveError{Kind: GameOver, Pos: pos, Action: action}
	case !b.Contains(pos):
		return &MoveError{Kind: OutOfBounds, Pos: pos, Action: action}
	case b.cells[b.index(pos)].visibility == Revealed:
		return &MoveError{Kind: AlreadyRevealed, Pos: pos, Action: action}
	}
	return nil
}

// IsValid returns whether the move would be accepted by ApplyMove.
func (b *Board) IsValid(x, y int, action Action) bool {
	return b.ValidateMove(x, y, action) == nil
}

// ApplyMove plays action at x, y:
//
//   - ToggleFlag flips the cell between Hidden and Flagged.
//   - Reveal on a hazard reveals only that cell and the match is Lost.
//   - Reveal on a safe cell flood-fills from it: the connected region of cells with no
//     adjacent hazards is revealed, along with the non-zero cells bordering it. Flags on
//     the way are cleared. If all safe cells are revealed the match is Won.
//
// Callers are expected to call ValidateMove first, but the validation is repeated here, so
// a rejected move returns the same *MoveError and leaves the Board untouched.
func (b *Board) ApplyMove(x, y int, action Action) error {
	if err := b.ValidateMove(x, y, action); err != nil {
		return err
	}
	pos := Pos{x, y}
	b.lastRevealed = b.lastRevealed[:0]
	c := &b.cells[b.index(pos)]
	switch action {
	case ToggleFlag:
		if c.visibility == Flagged {
			c.visibility = Hidden
			b.flags--
		} else {
			c.visibility = Flagged
			b.flags++
		}
		klog.V(2).Infof("Flag at %s toggled to %s", pos, c.visibility)

	case Reveal:
		if c.hazard {
			if c.visibility == Flagged {
				b.flags--
			}
			c.visibility = Revealed
			b.lastRevealed = append(b.lastRevealed, pos)
			b.status = Lost
			klog.V(1).Infof("Hazard revealed at %s: match lost", pos)
			return nil
		}
		b.lastRevealed = b.floodFill(pos, popLast, b.lastRevealed)
		b.revealedSafe += len(b.lastRevealed)
		klog.V(1).Infof("Reveal at %s uncovered %d cells (%d of %d safe cells revealed)",
			pos, len(b.lastRevealed), b.revealedSafe, b.safeTotal)
		if b.revealedSafe == b.safeTotal {
			b.status = Won
			klog.V(1).Infof("All safe cells revealed: match won")
		}

	default:
		exceptions.Panicf("unknown action %s at %s", action, pos)
	}
	return nil
}

// workOrder selects which end of the work list the flood fill takes the next position from.
// The final revealed set doesn't depend on it.
type workOrder uint8

const (
	popLast  workOrder = iota // Stack: depth-first.
	popFirst                  // Queue: breadth-first.
)

// floodFill reveals cells starting from the safe seed and returns revealed with the newly
// revealed positions appended.
//
// It keeps an explicit work list and a visited set, so there is no recursion and every cell
// is processed at most once. Cells that are already revealed or hold a hazard are skipped
// when popped; only cells with a zero count push their neighbours.
func (b *Board) floodFill(seed Pos, order workOrder, revealed []Pos) []Pos {
	visited := generics.MakeSet[Pos]()
	work := []Pos{seed}
	for len(work) > 0 {
		var pos Pos
		if order == popFirst {
			pos, work = work[0], work[1:]
		} else {
			pos, work = work[len(work)-1], work[:len(work)-1]
		}
		if visited.Has(pos) {
			continue
		}
		visited.Insert(pos)

		c := &b.cells[b.index(pos)]
		if c.hazard {
			if pos == seed {
				exceptions.Panicf("flood fill started on hazard at %s", pos)
			}
			continue
		}
		if c.visibility == Revealed {
			continue
		}
		if c.visibility == Flagged {
			b.flags--
		}
		c.visibility = Revealed
		revealed = append(revealed, pos)

		if c.count != 0 {
			continue
		}
		for neighbour := range b.NeighboursIter(pos) {
			if !visited.Has(neighbour) {
				work = append(work, neighbour)
			}
		}
	}
	return revealed
}
