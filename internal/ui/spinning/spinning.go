// Package spinning provides a friendly spinning symbol, optionally followed by a progress
// line, to display while a program is busy, plus the handling of Ctrl+C.
package spinning

import (
	"context"
	"fmt"
	"io"
	"k8s.io/klog/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Spinning displays the spinner on a separate goroutine until Done is called.
type Spinning struct {
	wg       sync.WaitGroup
	cancel   func()
	out      io.Writer
	progress func() string
	idx      int
	lastLen  int
}

var (
	ThemeAscii = []rune("|/-\\")
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeClock = []rune("🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚🕛")

	// Theme defaults to ThemeClock, but it can be set to anything else.
	Theme = ThemeClock

	// Period between updates of the display.
	Period = 500 * time.Millisecond
)

// SafeInterrupt will capture SigInt (Ctrl+C) and SigTerm and call the provided onInterrupt.
// If the program haven't exited after gracePeriod, it will call Reset to reset the terminal
// and exit.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		Reset()
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset() {
	fmt.Print("\033[?25h\033[39;49;0m\n")
}

// New starts a spinning display on the standard output, that runs on a separate goroutine.
// If progress is not nil, its result is displayed after the spinning symbol at every update.
//
// It stops when Spinning.Done is called or the context is cancelled.
func New(ctx context.Context, progress func() string) *Spinning {
	return NewWithWriter(ctx, os.Stdout, progress)
}

// NewWithWriter is like New, but writes the display to out.
func NewWithWriter(ctx context.Context, out io.Writer, progress func() string) *Spinning {
	s := &Spinning{out: out, progress: progress}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(Period)
		defer ticker.Stop()
		_, _ = fmt.Fprint(s.out, "\033[?25l")  // Hide cursor.
		defer fmt.Fprint(s.out, "\033[?25h\n") // Restore cursor.
		for {
			s.update()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// update rewrites the current line with the next symbol and the progress.
func (s *Spinning) update() {
	line := string(Theme[s.idx%len(Theme)])
	s.idx++
	if s.progress != nil {
		line += " " + s.progress()
	}
	padding := s.lastLen - len(line)
	s.lastLen = len(line)
	if padding < 0 {
		padding = 0
	}
	_, _ = fmt.Fprintf(s.out, "\r%s%*s", line, padding, "")
}

// Done stops the display and waits for it to finish.
func (s *Spinning) Done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
}
