package state

import (
	"github.com/janpfeifer/sweepGo/internal/generics"
	"k8s.io/klog/v2"
	"math/rand/v2"
)

// MaxSide is the largest width or height accepted by Board.Setup.
const MaxSide = 1024

// cell is the internal representation of one grid position. Position is implicit,
// given by the index in Board.cells.
type cell struct {
	hazard     bool
	count      uint8 // Number of hazards in the Moore neighborhood.
	visibility Visibility
}

// Board is the game state: a grid of cells with hidden hazards, what the player has
// revealed or flagged so far, and the status of the match.
//
// The zero value is not usable, create it with NewBoard or NewBoardWithSeed, and then
// call Setup before any move.
type Board struct {
	width, height int
	hazards       int
	cells         []cell // Row-major: index = y*width + x.

	safeTotal, revealedSafe int
	flags                   int
	status                  Status
	ready                   bool
	debug                   bool

	rng *rand.Rand

	// lastRevealed lists the positions revealed by the last successful ApplyMove.
	lastRevealed []Pos
}

// NewBoard creates a Board with a randomly seeded hazard placement. It is not ready
// to play until Setup is called.
func NewBoard() *Board {
	return &Board{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewBoardWithSeed creates a Board whose hazard placements are reproducible: two boards
// created with the same seed and set up with the same parameters get the same layouts.
func NewBoardWithSeed(seed uint64) *Board {
	return &Board{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Setup starts a new match on a width x height grid with hazards placed uniformly at random.
//
// It fully replaces any previous match. If the parameters are invalid it returns a
// *ConfigurationError and the Board is left not ready.
func (b *Board) Setup(width, height, hazards int) error {
	b.reset()
	if err := validateConfig(width, height, hazards); err != nil {
		return err
	}
	indices := sampleHazards(b.rng, width*height, hazards)
	cells := make([]cell, width*height)
	for _, idx := range indices {
		cells[idx].hazard = true
	}
	b.install(width, height, hazards, cells)
	return nil
}

// SetupWithHazards is like Setup, but with the given hazard layout instead of a random one.
// It is used for tests, replays and debugging.
func (b *Board) SetupWithHazards(width, height int, hazardPositions []Pos) error {
	b.reset()
	hazards := len(hazardPositions)
	if err := validateConfig(width, height, hazards); err != nil {
		return err
	}
	cells := make([]cell, width*height)
	seen := generics.MakeSet[Pos](hazards)
	for _, pos := range hazardPositions {
		if pos[0] < 0 || pos[0] >= width || pos[1] < 0 || pos[1] >= height || seen.Has(pos) {
			return &ConfigurationError{Kind: InvalidHazardLayout, Width: width, Height: height, Hazards: hazards}
		}
		seen.Insert(pos)
		cells[pos[1]*width+pos[0]].hazard = true
	}
	b.install(width, height, hazards, cells)
	return nil
}

func validateConfig(width, height, hazards int) error {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return &ConfigurationError{Kind: InvalidDimensions, Width: width, Height: height, Hazards: hazards}
	}
	if hazards <= 0 || hazards >= width*height {
		return &ConfigurationError{Kind: InvalidHazardCount, Width: width, Height: height, Hazards: hazards}
	}
	return nil
}

// reset discards the current match, leaving the Board not ready.
func (b *Board) reset() {
	b.width, b.height, b.hazards = 0, 0, 0
	b.cells = nil
	b.safeTotal, b.revealedSafe, b.flags = 0, 0, 0
	b.status = Running
	b.ready = false
	b.lastRevealed = nil
}

// install the fully built grid. Only called once all validation passed.
func (b *Board) install(width, height, hazards int, cells []cell) {
	b.width, b.height, b.hazards = width, height, hazards
	b.cells = cells
	b.computeAdjacency()
	b.safeTotal = width*height - hazards
	b.status = Running
	b.ready = true
	klog.V(1).Infof("Board set up: %dx%d with %d hazards (%d safe cells)", width, height, hazards, b.safeTotal)
}

// IsReady returns whether Setup completed successfully.
func (b *Board) IsReady() bool {
	return b.ready
}

// Status of the match.
func (b *Board) Status() Status {
	return b.status
}

// IsFinished returns whether the match reached a terminal status.
func (b *Board) IsFinished() bool {
	return b.ready && b.status.IsFinished()
}

// Dimensions returns the width (number of columns) and height (number of rows) of the grid.
func (b *Board) Dimensions() (width, height int) {
	return b.width, b.height
}

// Contains returns whether pos is inside the grid.
func (b *Board) Contains(pos Pos) bool {
	return pos[0] >= 0 && pos[0] < b.width && pos[1] >= 0 && pos[1] < b.height
}

func (b *Board) index(pos Pos) int {
	return pos[1]*b.width + pos[0]
}

func (b *Board) posOf(idx int) Pos {
	return Pos{idx % b.width, idx / b.width}
}

// HazardCount is the number of hazards in the grid.
func (b *Board) HazardCount() int {
	return b.hazards
}

// SafeCellTotal is the number of cells without hazards: revealing all of them wins the match.
func (b *Board) SafeCellTotal() int {
	return b.safeTotal
}

// RevealedSafeCount is the number of safe cells revealed so far.
func (b *Board) RevealedSafeCount() int {
	return b.revealedSafe
}

// FlagCount is the number of cells currently flagged.
func (b *Board) FlagCount() int {
	return b.flags
}

// HazardsRemaining is the number of hazards minus the number of flags. It can be negative
// if the player placed more flags than there are hazards.
func (b *Board) HazardsRemaining() int {
	return b.hazards - b.flags
}

// LastRevealed returns the positions revealed by the last successful ApplyMove, in the
// order they were revealed. It is empty after a ToggleFlag.
//
// The returned slice is owned by the Board and is only valid until the next move.
func (b *Board) LastRevealed() []Pos {
	return b.lastRevealed
}

// SetDebug enables the debug mode, where CellView also discloses hazards of hidden cells.
// Only meant for diagnostic displays.
func (b *Board) SetDebug(debug bool) {
	b.debug = debug
}

// Debug returns whether debug mode is on.
func (b *Board) Debug() bool {
	return b.debug
}

// CellView is a read-only projection of a cell, enough for rendering, that doesn't
// disclose the hazard layout of hidden cells.
type CellView struct {
	Visibility Visibility

	// AdjacentHazards is only set if the cell is Revealed.
	AdjacentHazards int

	// HasHazard is only set if the cell is Revealed, if the match is over or if the
	// Board is in debug mode.
	HasHazard bool
}

// CellView returns the view of the cell at x, y. It returns a *MoveError if the Board is not
// ready (NotReady) or the position is outside the grid (OutOfBounds).
func (b *Board) CellView(x, y int) (CellView, error) {
	pos := Pos{x, y}
	if !b.ready {
		return CellView{}, &MoveError{Kind: NotReady, Pos: pos}
	}
	if !b.Contains(pos) {
		return CellView{}, &MoveError{Kind: OutOfBounds, Pos: pos}
	}
	c := b.cells[b.index(pos)]
	view := CellView{Visibility: c.visibility}
	if c.visibility == Revealed {
		view.AdjacentHazards = int(c.count)
		view.HasHazard = c.hazard
	} else if b.debug || b.status.IsFinished() {
		view.HasHazard = c.hazard
	}
	return view, nil
}
