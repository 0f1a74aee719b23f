// minesweeper plays a match on the terminal, either with the line-based CLI (default) or with
// the full-screen TUI (-tui).
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/janpfeifer/must"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/janpfeifer/sweepGo/internal/ui/cli"
	"github.com/janpfeifer/sweepGo/internal/ui/spinning"
	"github.com/janpfeifer/sweepGo/internal/ui/tui"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"time"
)

var (
	flagGame = flag.String("game", "",
		fmt.Sprintf("Game configuration: one of the presets %q, or \"custom:width=W,height=H,hazards=N\". "+
			"If empty it is asked interactively (or %q is used with -tui).", PresetNames(), DefaultGameConfig))
	flagTUI   = flag.Bool("tui", false, "Use the full-screen terminal UI.")
	flagDebug = flag.Bool("debug", false, "Debug mode: show where the hazards are.")
	flagSeed  = flag.Int64("seed", -1, "Seed for the hazard placement. If negative a random seed is used.")
	flagColor = flag.Bool("color", true, "Use colors in the CLI.")
	flagClear = flag.Bool("clear", false, "Clear the screen before printing the board in the CLI.")
	flagAgain = flag.Bool("again", true, "Ask to play again at the end of each match in the CLI.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	var board *Board
	if *flagSeed >= 0 {
		board = NewBoardWithSeed(uint64(*flagSeed))
	} else {
		board = NewBoard()
	}
	board.SetDebug(*flagDebug)

	if *flagTUI {
		config := must.M1(ParseGameConfig(*flagGame))
		must.M(config.Setup(board))
		must.M(tui.New(board, config).Run())
		return
	}

	ui := cli.New(*flagColor, *flagClear)
	for ctx.Err() == nil {
		var config GameConfig
		var err error
		if *flagGame != "" {
			config, err = ParseGameConfig(*flagGame)
		} else {
			config, err = ui.ReadGameConfig()
		}
		if errors.Is(err, cli.ErrQuit) {
			return
		}
		if err != nil {
			klog.Exitf("Failed to read game configuration: %+v", err)
		}
		if err = config.Setup(board); err != nil {
			klog.Exitf("Failed to set up the board: %+v", err)
		}
		klog.V(1).Infof("Starting match %dx%d with %d hazards", config.Width, config.Height, config.Hazards)
		err = ui.Run(board)
		if errors.Is(err, cli.ErrQuit) {
			return
		}
		if err != nil {
			klog.Exitf("Failed to run match: %+v", err)
		}
		if !*flagAgain || !ui.AskPlayAgain() {
			return
		}
	}
}
