// soak plays many matches with random legal moves in parallel, checking the invariants of
// the board after every move. It is used to stress the board engine and to profile it.
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/janpfeifer/sweepGo/internal/profilers"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/janpfeifer/sweepGo/internal/ui/spinning"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"time"
)

var (
	flagGame = flag.String("game", "expert",
		fmt.Sprintf("Game configuration: one of the presets %q, or \"custom:width=W,height=H,hazards=N\".", PresetNames()))
	flagNumMatches  = flag.Int("num_matches", 1000, "Number of matches to play.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagSeed     = flag.Uint64("seed", 0, "Base seed: match i uses seed+i, so runs are reproducible.")
	flagFlagRate = flag.Float64("flag_rate", 0.2, "Probability of a move being a flag toggle instead of a reveal.")
	flagProgress = flag.Bool("progress", true, "Display progress while running.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if err := run(); err != nil {
		klog.Exitf("Soak failed: %+v", err)
	}
}

// run the soak with the flags configuration. The deferred profilers.OnQuit runs before
// the caller exits, also when the soak fails, so the profiles are always written.
func run() error {
	config, err := ParseGameConfig(*flagGame)
	if err != nil {
		return err
	}
	if *flagFlagRate < 0 || *flagFlagRate >= 1 {
		return errors.Errorf("invalid -flag_rate=%g, it must be in the range [0, 1)", *flagFlagRate)
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()
	profilers.Setup(ctx)
	defer profilers.OnQuit()

	r := &runner{
		config:      config,
		numMatches:  *flagNumMatches,
		parallelism: getParallelism(),
		seed:        *flagSeed,
		flagRate:    *flagFlagRate,
	}
	var s *spinning.Spinning
	if *flagProgress {
		s = spinning.New(ctx, r.progress)
	}
	start := time.Now()
	err = r.run(ctx)
	if s != nil {
		s.Done()
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
	}
	fmt.Printf("%s in %s\n", r.progress(), time.Since(start))
	return nil
}
