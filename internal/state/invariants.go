package state

import (
	"github.com/pkg/errors"
)

// CheckInvariants verifies the consistency of the Board. It is expensive (it goes over
// every cell and its neighbours), and it's used by tests and the soak tester after each move.
//
// It checks that:
//
//   - the number of hazards and every cell's count match the layout;
//   - the revealed safe count and the flag count match the cell visibilities;
//   - a revealed hazard only exists if the match is lost, and there is exactly one;
//   - the status is Won if and only if all safe cells are revealed.
func (b *Board) CheckInvariants() error {
	if !b.ready {
		if b.cells != nil {
			return errors.New("board not ready but holds a grid")
		}
		return nil
	}
	if len(b.cells) != b.width*b.height {
		return errors.Errorf("grid has %d cells, want %dx%d=%d", len(b.cells), b.width, b.height, b.width*b.height)
	}
	var hazards, revealedSafe, revealedHazards, flags int
	for idx, c := range b.cells {
		pos := b.posOf(idx)
		count := 0
		for neighbour := range b.NeighboursIter(pos) {
			if b.cells[b.index(neighbour)].hazard {
				count++
			}
		}
		if count != int(c.count) {
			return errors.Errorf("cell %s has adjacent hazards count %d, want %d", pos, c.count, count)
		}
		if c.hazard {
			hazards++
		}
		switch c.visibility {
		case Revealed:
			if c.hazard {
				revealedHazards++
			} else {
				revealedSafe++
			}
		case Flagged:
			flags++
		}
	}
	if hazards != b.hazards {
		return errors.Errorf("grid has %d hazards, want %d", hazards, b.hazards)
	}
	if b.safeTotal != b.width*b.height-b.hazards {
		return errors.Errorf("safe cell total is %d, want %d", b.safeTotal, b.width*b.height-b.hazards)
	}
	if revealedSafe != b.revealedSafe {
		return errors.Errorf("%d safe cells revealed, but revealed safe count is %d", revealedSafe, b.revealedSafe)
	}
	if flags != b.flags {
		return errors.Errorf("%d cells flagged, but flag count is %d", flags, b.flags)
	}
	if b.status == Lost && revealedHazards != 1 {
		return errors.Errorf("match lost with %d revealed hazards, want exactly 1", revealedHazards)
	}
	if b.status != Lost && revealedHazards != 0 {
		return errors.Errorf("match %s with %d revealed hazards", b.status, revealedHazards)
	}
	if (b.status == Won) != (b.revealedSafe == b.safeTotal) {
		return errors.Errorf("match %s with %d of %d safe cells revealed", b.status, b.revealedSafe, b.safeTotal)
	}
	return nil
}
