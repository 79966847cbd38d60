// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const spinnerInterval = 100 * time.Millisecond

// ProgressTracker shows a spinner per step on a terminal. On anything else
// it writes nothing, so piped stderr only ever carries errors and logs.
type ProgressTracker struct {
	writer       io.Writer
	isTTY        bool
	warnAfter    time.Duration
	spinnerChars []string

	mu             sync.Mutex
	stepName       string
	stepStart      time.Time
	spinnerIndex   int
	lastLineLength int
	warningShown   bool
	stop           chan struct{}
	done           chan struct{}
}

// NewProgressTracker creates a tracker that warns if a step takes longer than warnAfter
func NewProgressTracker(writer io.Writer, warnAfter time.Duration) *ProgressTracker {
	return newProgressTracker(writer, isTerminal(writer), warnAfter)
}

func newProgressTracker(writer io.Writer, isTTY bool, warnAfter time.Duration) *ProgressTracker {
	return &ProgressTracker{
		writer:       writer,
		isTTY:        isTTY,
		warnAfter:    warnAfter,
		spinnerChars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StartStep begins a new step, ending any step still running.
func (pt *ProgressTracker) StartStep(stepName string) {
	if pt == nil || !pt.isTTY {
		return
	}
	pt.halt()

	pt.mu.Lock()
	pt.stepName = stepName
	pt.stepStart = time.Now()
	pt.warningShown = false
	pt.stop = make(chan struct{})
	pt.done = make(chan struct{})
	pt.drawLocked()
	stop, done := pt.stop, pt.done
	pt.mu.Unlock()

	go pt.spin(stop, done)
}

// CompleteStep marks the running step as done.
func (pt *ProgressTracker) CompleteStep(suffix string) {
	pt.finish(func(elapsed time.Duration) string {
		if suffix != "" {
			return fmt.Sprintf("✓ %s (%.1fs) - %s", pt.stepName, elapsed.Seconds(), suffix)
		}
		return fmt.Sprintf("✓ %s (%.1fs)", pt.stepName, elapsed.Seconds())
	})
}

// FailStep marks the running step as failed. The error itself is reported
// by the caller.
func (pt *ProgressTracker) FailStep() {
	pt.finish(func(elapsed time.Duration) string {
		return fmt.Sprintf("✗ %s (%.1fs)", pt.stepName, elapsed.Seconds())
	})
}

func (pt *ProgressTracker) finish(line func(time.Duration) string) {
	if pt == nil || !pt.isTTY {
		return
	}
	pt.halt()

	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.stepName == "" {
		return
	}
	pt.clearLineLocked()
	fmt.Fprintln(pt.writer, line(time.Since(pt.stepStart)))
	pt.stepName = ""
}

// halt stops the spinner goroutine, if any, and waits for it to exit.
func (pt *ProgressTracker) halt() {
	pt.mu.Lock()
	stop, done := pt.stop, pt.done
	pt.stop, pt.done = nil, nil
	pt.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (pt *ProgressTracker) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			pt.mu.Lock()
			pt.drawLocked()
			pt.mu.Unlock()
		}
	}
}

func (pt *ProgressTracker) drawLocked() {
	elapsed := time.Since(pt.stepStart)
	if pt.warnAfter > 0 && elapsed > pt.warnAfter && !pt.warningShown {
		pt.clearLineLocked()
		fmt.Fprintf(pt.writer, "Warning: %s taking longer than expected (%.1fs)...\n", pt.stepName, elapsed.Seconds())
		pt.warningShown = true
	}
	pt.clearLineLocked()
	line := fmt.Sprintf("%s %s... (%.0fs)", pt.spinnerChars[pt.spinnerIndex], pt.stepName, elapsed.Seconds())
	pt.spinnerIndex = (pt.spinnerIndex + 1) % len(pt.spinnerChars)
	fmt.Fprint(pt.writer, line)
	pt.lastLineLength = len([]rune(line))
}

func (pt *ProgressTracker) clearLineLocked() {
	if pt.lastLineLength > 0 {
		fmt.Fprint(pt.writer, "\r"+strings.Repeat(" ", pt.lastLineLength)+"\r")
		pt.lastLineLength = 0
	}
}
