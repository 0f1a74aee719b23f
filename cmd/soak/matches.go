package main

import (
	"context"
	"fmt"
	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"runtime"
	"sync"
)

// runner plays the matches and keeps the counts.
type runner struct {
	config      GameConfig
	numMatches  int
	parallelism int
	seed        uint64
	flagRate    float64

	mu                 sync.Mutex
	won, lost, moves   int
	revealed, finished int
}

func getParallelism() (parallelism int) {
	parallelism = *flagParallelism
	if parallelism == 0 {
		parallelism = runtime.GOMAXPROCS(0)
		klog.V(1).Infof("Parallelism for soak=%d", parallelism)
	}
	return
}

// progress returns a one-line summary of the matches played so far.
func (r *runner) progress() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%d of %d matches finished (%d won, %d lost), %d moves, %d cells revealed",
		r.finished, r.numMatches, r.won, r.lost, r.moves, r.revealed)
}

// run all matches, stopping at the first error.
func (r *runner) run(ctx context.Context) error {
	var wg errgroup.Group
	wg.SetLimit(r.parallelism)
	for matchIdx := range r.numMatches {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return r.runMatch(ctx, matchIdx)
		})
	}
	return wg.Wait()
}

// runMatch plays one match with random legal moves, checking the invariants after every move.
// Panics from the engine are converted to errors.
func (r *runner) runMatch(ctx context.Context, matchIdx int) (err error) {
	seed := r.seed + uint64(matchIdx)
	var (
		status          Status
		moves, revealed int
	)
	panicErr := exceptions.TryCatch[error](func() {
		status, moves, revealed, err = playMatch(ctx, seed, r.config, r.flagRate)
	})
	if panicErr != nil {
		err = panicErr
	}
	if err != nil {
		return errors.WithMessagef(err, "match #%d (seed=%d)", matchIdx, seed)
	}
	if ctx.Err() != nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
	r.moves += moves
	r.revealed += revealed
	switch status {
	case Won:
		r.won++
	case Lost:
		r.lost++
	}
	return nil
}

// playMatch plays one match of the soak. It is a variable so tests can replace it.
var playMatch = playRandomMatch

// playRandomMatch sets up a board with the seed and plays random legal moves until it is finished.
func playRandomMatch(ctx context.Context, seed uint64, config GameConfig, flagRate float64) (status Status, moves, revealed int, err error) {
	board := NewBoardWithSeed(seed)
	if err = config.Setup(board); err != nil {
		return
	}
	if err = board.CheckInvariants(); err != nil {
		return
	}
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	width, height := board.Dimensions()
	candidates := make([]Pos, 0, width*height)
	for !board.IsFinished() {
		if ctx.Err() != nil {
			return
		}
		candidates = candidates[:0]
		for y := range height {
			for x := range width {
				if board.IsValid(x, y, Reveal) {
					candidates = append(candidates, Pos{x, y})
				}
			}
		}
		if len(candidates) == 0 {
			err = errors.Errorf("no valid moves on a running board after %d moves", moves)
			return
		}
		pos := candidates[rng.IntN(len(candidates))]
		action := Reveal
		if rng.Float64() < flagRate {
			action = ToggleFlag
		}
		if err = board.ApplyMove(pos.X(), pos.Y(), action); err != nil {
			return
		}
		moves++
		revealed += len(board.LastRevealed())
		if err = board.CheckInvariants(); err != nil {
			err = errors.WithMessagef(err, "after move #%d %s at %s", moves, action, pos)
			return
		}
	}
	status = board.Status()
	return
}
