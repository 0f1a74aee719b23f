// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// CharsPerColumn used to print each cell of the board.
const CharsPerColumn = 3

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

var (
	moveParser = regexp.MustCompile(`^\s*(\w)[\s,]+(-?\d+)[\s,]+(-?\d+)[\s,]*$`)

	// ErrQuit is returned by ReadCommand and Run if the user asked to quit.
	ErrQuit = errors.New("user quit")

	// ErrTooManyErrors is returned by ReadCommand if the user failed to input a valid command 3 times.
	ErrTooManyErrors = errors.New("failed to read command 3 times")
)

// UI reads the moves from an input (usually os.Stdin) and prints the board to an output
// (usually os.Stdout).
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer
}

// New creates a UI using the standard input and output.
func New(color bool, clearScreen bool) *UI {
	return NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI reading commands from in and printing to out.
func NewWithIO(in io.Reader, out io.Writer, color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) println(args ...any) {
	_, _ = fmt.Fprintln(ui.out, args...)
}

// terminalWidth returns the width of the terminal, or 0 if the output is not a terminal.
func (ui *UI) terminalWidth() int {
	f, ok := ui.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range lines {
		if w := displayWidth(line); w > blockWidth {
			blockWidth = w
		}
	}
	indent := (ui.terminalWidth() - blockWidth) / 2
	if indent < 0 {
		indent = 0
	}
	for _, line := range lines {
		if len(line) == 0 {
			ui.println()
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// readLine prints the prompt and reads one trimmed line.
func (ui *UI) readLine(prompt string) (string, error) {
	ui.printf("%s", prompt)
	text, err := ui.reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ReadGameConfig asks the user for the type of game: one of the presets, or a custom
// configuration, see state.ParseGameConfig. An empty line selects the default.
func (ui *UI) ReadGameConfig() (GameConfig, error) {
	for numErrs := 0; numErrs < 3; numErrs++ {
		ui.printf("Enter grid type (%s), or custom:width=W,height=H,hazards=N\n", strings.Join(PresetNames(), ", "))
		text, err := ui.readLine("    game > ")
		if err != nil {
			return GameConfig{}, err
		}
		if isQuit(text) {
			return GameConfig{}, ErrQuit
		}
		config, err := ParseGameConfig(text)
		if err != nil {
			ui.printf("    * %v\n", err)
			continue
		}
		return config, nil
	}
	return GameConfig{}, ErrTooManyErrors
}

func isQuit(text string) bool {
	text = strings.ToLower(text)
	return text == "q" || text == "quit" || text == "exit"
}

// ReadCommand reads the next move in the form "<action> <x> <y>", where action is "C" or "R"
// to reveal (click) and "F" to toggle a flag.
//
// Non-numeric, out-of-range and invalid moves are reported and the user is asked again,
// up to 3 times.
func (ui *UI) ReadCommand(b *Board) (x, y int, action Action, err error) {
	width, height := b.Dimensions()
	for numErrs := 0; numErrs < 3; numErrs++ {
		var text string
		text, err = ui.readLine(fmt.Sprintf("    [%d hazards left] action > ", b.HazardsRemaining()))
		if err != nil {
			return
		}
		if isQuit(text) {
			err = ErrQuit
			return
		}
		matches := moveParser.FindStringSubmatch(strings.ToUpper(text))
		if len(matches) != 4 {
			ui.printf("    * Failed to parse your input %q, type \"C x y\" to reveal or \"F x y\" to flag\n", text)
			continue
		}
		switch matches[1] {
		case "C", "R":
			action = Reveal
		case "F":
			action = ToggleFlag
		default:
			ui.printf("    * Sorry action %q unknown, choose one of 'C' (reveal) or 'F' (flag)\n", matches[1])
			continue
		}
		var convErr error
		if x, convErr = strconv.Atoi(matches[2]); convErr != nil || x < 0 || x >= width {
			ui.printf("    * x=%s is out of bounds, it must be between 0 and %d\n", matches[2], width-1)
			continue
		}
		if y, convErr = strconv.Atoi(matches[3]); convErr != nil || y < 0 || y >= height {
			ui.printf("    * y=%s is out of bounds, it must be between 0 and %d\n", matches[3], height-1)
			continue
		}
		if moveErr := b.ValidateMove(x, y, action); moveErr != nil {
			ui.printf("    * Invalid move: %v\n", moveErr)
			continue
		}
		err = nil
		return
	}
	err = ErrTooManyErrors
	return
}

// RunNextMove prints the board, reads a valid move and applies it.
func (ui *UI) RunNextMove(b *Board) error {
	for {
		ui.Print(b)
		ui.println()
		x, y, action, err := ui.ReadCommand(b)
		if errors.Is(err, ErrTooManyErrors) {
			continue
		}
		if err != nil {
			return err
		}
		return b.ApplyMove(x, y, action)
	}
}

// Run the match until it is finished or the user quits. It prints the final board and result.
func (ui *UI) Run(b *Board) error {
	for !b.IsFinished() {
		if err := ui.RunNextMove(b); err != nil {
			return err
		}
	}
	ui.Print(b)
	ui.PrintResult(b)
	return nil
}

// AskPlayAgain asks whether the user wants another match. Any read error is taken as a no.
func (ui *UI) AskPlayAgain() bool {
	text, err := ui.readLine("Play again ? [y/N] ")
	if err != nil {
		return false
	}
	text = strings.ToLower(text)
	return text == "y" || text == "yes"
}

// Print the status line and the board.
func (ui *UI) Print(b *Board) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	width, height := b.Dimensions()
	ui.printf("\n%sBoard %dx%d, %d hazards, %d of %d safe cells revealed%s\n\n",
		ui.boldStart(), width, height, b.HazardCount(), b.RevealedSafeCount(), b.SafeCellTotal(), ui.colorEnd())
	ui.PrintBoard(b)
}

// PrintBoard prints the grid with the column numbers on top and the row numbers on the left.
func (ui *UI) PrintBoard(b *Board) {
	var buf bytes.Buffer
	width, height := b.Dimensions()
	rowLabelWidth := len(strconv.Itoa(height-1)) + 1
	_, _ = fmt.Fprint(&buf, strings.Repeat(" ", rowLabelWidth+1))
	for x := range width {
		_, _ = fmt.Fprintf(&buf, "%*d", CharsPerColumn, x)
	}
	_, _ = fmt.Fprintln(&buf)
	for y := range height {
		_, _ = fmt.Fprintf(&buf, "%*d ", rowLabelWidth, y)
		for x := range width {
			view, err := b.CellView(x, y)
			if err != nil {
				// Only happens if the board is not ready.
				return
			}
			_, _ = fmt.Fprint(&buf, ui.cellString(b, view))
		}
		_, _ = fmt.Fprintln(&buf)
	}
	ui.printCentered(buf.String())
}

// CellSymbol returns the symbol used for a cell:
// "-" hidden, "F" flagged, "." revealed with no adjacent hazards, "1" to "8" for
// revealed counts, "*" for the revealed hazard and "x" for disclosed hazards.
// Flags are kept even over disclosed hazards, and hazards of a won match are shown as flags.
func CellSymbol(status Status, view CellView) string {
	switch {
	case view.Visibility == Revealed && view.HasHazard:
		return "*"
	case view.Visibility == Revealed && view.AdjacentHazards == 0:
		return "."
	case view.Visibility == Revealed:
		return strconv.Itoa(view.AdjacentHazards)
	case view.Visibility == Flagged:
		return "F"
	case view.HasHazard && status == Won:
		return "F"
	case view.HasHazard:
		return "x"
	}
	return "-"
}

func (ui *UI) cellString(b *Board, view CellView) string {
	symbol := CellSymbol(b.Status(), view)
	return ui.colorStartForCell(symbol) + fmt.Sprintf("%*s", CharsPerColumn, symbol) + ui.colorEnd()
}

// PrintResult prints the banner with the result of the match.
func (ui *UI) PrintResult(b *Board) {
	var msg string
	style := lipgloss.NewStyle().Padding(1, 2).Foreground(lipgloss.Color("0"))
	switch b.Status() {
	case Won:
		msg = "*** You won! Congratulations! ***"
		style = style.Background(lipgloss.Color("10"))
	case Lost:
		msg = "*** You lost: a hazard was revealed! ***"
		style = style.Background(lipgloss.Color("9"))
	default:
		msg = "*** Match not finished ***"
		style = style.Background(lipgloss.Color("13"))
	}
	ui.println()
	if ui.color {
		ui.printCentered(style.Render(msg))
	} else {
		ui.printCentered(msg)
	}
	ui.println()
}

// colorStartForCell returns the string to start a color appropriate for the given symbol.
func (ui *UI) colorStartForCell(symbol string) string {
	if !ui.color {
		return ""
	}
	switch symbol {
	case "*":
		return "\033[37;41;1m"
	case "x":
		return "\033[31;1m"
	case "F":
		return "\033[35;1m"
	case "-":
		return "\033[90m"
	case ".":
		return "\033[37m"
	case "1":
		return "\033[34;1m"
	case "2":
		return "\033[32;1m"
	case "3":
		return "\033[31;1m"
	}
	return "\033[33;1m"
}

func (ui *UI) boldStart() string {
	if !ui.color {
		return ""
	}
	return "\033[37;03;1m"
}

func (ui *UI) colorEnd() string {
	if !ui.color {
		return ""
	}
	return "\033[39;49;0m"
}
