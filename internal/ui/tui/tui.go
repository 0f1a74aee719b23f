// Package tui implements an interactive full-screen terminal UI for the game, based on tview.
//
// The Board is only touched from the tview event loop (input capture and draw), so there
// is no need for locking.
package tui

import (
	"fmt"
	"github.com/gdamore/tcell/v2"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/janpfeifer/sweepGo/internal/ui/cli"
	"github.com/rivo/tview"
	"k8s.io/klog/v2"
)

// TUI holds the tview widgets and the Board being played.
type TUI struct {
	app    *tview.Application
	table  *tview.Table
	status *tview.TextView

	board  *Board
	config GameConfig
}

// New creates the TUI for the given Board, which must already be set up with config.
// The config is used again to start new matches.
func New(board *Board, config GameConfig) *TUI {
	t := &TUI{
		app:    tview.NewApplication(),
		table:  tview.NewTable(),
		status: tview.NewTextView().SetDynamicColors(true),
		board:  board,
		config: config,
	}
	t.table.SetSelectable(true, true)
	t.table.SetInputCapture(t.handleKey)
	t.Render()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.table, 0, 1, true).
		AddItem(t.status, 2, 0, false)
	t.app.SetRoot(layout, true).SetFocus(t.table)
	return t
}

// Run the application until the user quits.
func (t *TUI) Run() error {
	return t.app.Run()
}

// handleKey is the input capture of the table: Enter reveals the selected cell, "f" toggles
// a flag, "n" starts a new match and "q" quits. Arrow keys are passed on to the table.
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	row, col := t.table.GetSelection()
	switch event.Key() {
	case tcell.KeyEnter:
		t.play(col, row, Reveal)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'f', 'F':
			t.play(col, row, ToggleFlag)
			return nil
		case 'n', 'N':
			if err := t.config.Setup(t.board); err != nil {
				klog.Errorf("Failed to start new match: %+v", err)
			}
			t.Render()
			return nil
		case 'q', 'Q':
			t.app.Stop()
			return nil
		}
	}
	return event
}

// play validates and applies the move, and re-renders the board.
func (t *TUI) play(x, y int, action Action) {
	if err := t.board.ValidateMove(x, y, action); err != nil {
		t.setStatus(fmt.Sprintf("[red]%v", err))
		return
	}
	if err := t.board.ApplyMove(x, y, action); err != nil {
		t.setStatus(fmt.Sprintf("[red]%v", err))
		return
	}
	t.Render()
}

func (t *TUI) setStatus(msg string) {
	t.status.SetText(msg + "\n[white]Enter: reveal, f: flag, n: new game, q: quit")
}

// Render redraws every cell and the status line.
func (t *TUI) Render() {
	width, height := t.board.Dimensions()
	t.table.Clear()
	for y := range height {
		for x := range width {
			view, err := t.board.CellView(x, y)
			if err != nil {
				klog.Errorf("CellView(%d, %d): %v", x, y, err)
				return
			}
			symbol := cli.CellSymbol(t.board.Status(), view)
			t.table.SetCell(y, x, tview.NewTableCell(" "+symbol+" ").
				SetAlign(tview.AlignCenter).
				SetTextColor(symbolColor(symbol)))
		}
	}
	switch t.board.Status() {
	case Won:
		t.setStatus("[green]You won! Congratulations!")
	case Lost:
		t.setStatus("[red]You lost: a hazard was revealed!")
	default:
		t.setStatus(fmt.Sprintf("[yellow]%d hazards left, %d of %d safe cells revealed",
			t.board.HazardsRemaining(), t.board.RevealedSafeCount(), t.board.SafeCellTotal()))
	}
}

func symbolColor(symbol string) tcell.Color {
	switch symbol {
	case "*", "x", "3":
		return tcell.ColorRed
	case "F":
		return tcell.ColorFuchsia
	case "-":
		return tcell.ColorGray
	case "1":
		return tcell.ColorBlue
	case "2":
		return tcell.ColorGreen
	case ".":
		return tcell.ColorWhite
	}
	return tcell.ColorYellow
}
