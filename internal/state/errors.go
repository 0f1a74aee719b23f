package state

import (
	"fmt"
)

// ConfigurationErrorKind enumerates the reasons a Board.Setup can be rejected.
type ConfigurationErrorKind uint8

const (
	// InvalidDimensions is returned if width or height is not positive or is larger than MaxSide.
	InvalidDimensions ConfigurationErrorKind = iota + 1

	// InvalidHazardCount is returned if the number of hazards is not in the open
	// interval (0, width*height).
	InvalidHazardCount

	// InvalidHazardLayout is returned by Board.SetupWithHazards if a hazard position is
	// repeated or falls outside the grid.
	InvalidHazardLayout
)

var configurationErrorKindNames = [...]string{"", "invalid dimensions", "invalid hazard count", "invalid hazard layout"}

func (k ConfigurationErrorKind) String() string {
	if int(k) >= len(configurationErrorKindNames) || k == 0 {
		return fmt.Sprintf("ConfigurationErrorKind(%d)", uint8(k))
	}
	return configurationErrorKindNames[k]
}

// ConfigurationError is returned by Board.Setup and Board.SetupWithHazards.
// The Board is left not ready.
type ConfigurationError struct {
	Kind                   ConfigurationErrorKind
	Width, Height, Hazards int
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: board %dx%d with %d hazards", e.Kind, e.Width, e.Height, e.Hazards)
}

// Is matches any other *ConfigurationError of the same Kind, so errors.Is(err, ErrInvalidHazardCount)
// works regardless of the dimensions.
func (e *ConfigurationError) Is(target error) bool {
	t, ok := target.(*ConfigurationError)
	return ok && t.Kind == e.Kind
}

// Sentinel values to be used with errors.Is.
var (
	ErrInvalidDimensions   = &ConfigurationError{Kind: InvalidDimensions}
	ErrInvalidHazardCount  = &ConfigurationError{Kind: InvalidHazardCount}
	ErrInvalidHazardLayout = &ConfigurationError{Kind: InvalidHazardLayout}
)

// MoveErrorKind enumerates the reasons a move is rejected. All of them are recoverable:
// the Board is left unchanged.
type MoveErrorKind uint8

const (
	OutOfBounds MoveErrorKind = iota + 1
	AlreadyRevealed
	NotReady
	GameOver
)

var moveErrorKindNames = [...]string{"", "out of bounds", "already revealed", "board not ready", "game over"}

func (k MoveErrorKind) String() string {
	if int(k) >= len(moveErrorKindNames) || k == 0 {
		return fmt.Sprintf("MoveErrorKind(%d)", uint8(k))
	}
	return moveErrorKindNames[k]
}

// MoveError is returned by Board.ValidateMove and Board.ApplyMove.
type MoveError struct {
	Kind   MoveErrorKind
	Pos    Pos
	Action Action
}

// Error implements the error interface.
func (e *MoveError) Error() string {
	return fmt.Sprintf("invalid move %s at %s: %s", e.Action, e.Pos, e.Kind)
}

// Is matches any other *MoveError of the same Kind.
func (e *MoveError) Is(target error) bool {
	t, ok := target.(*MoveError)
	return ok && t.Kind == e.Kind
}

// Sentinel values to be used with errors.Is.
var (
	ErrOutOfBounds     = &MoveError{Kind: OutOfBounds}
	ErrAlreadyRevealed = &MoveError{Kind: AlreadyRevealed}
	ErrNotReady        = &MoveError{Kind: NotReady}
	ErrGameOver        = &MoveError{Kind: GameOver}
)
