package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StatusWriter renders a one-line spinner on w while a slow phase runs,
// rewriting the line in place. Commands use it for work that happens
// outside the progress table, like uploads.
type StatusWriter struct {
	w       io.Writer
	updates chan string
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once
}

// NewStatusWriter starts the spinner goroutine. Callers must Stop it.
func NewStatusWriter(w io.Writer) *StatusWriter {
	sw := &StatusWriter{
		w:       w,
		updates: make(chan string, 4),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go sw.loop()
	return sw
}

// Update swaps the message next to the spinner and restarts the phase timer.
func (sw *StatusWriter) Update(msg string) {
	select {
	case sw.updates <- msg:
	case <-sw.done:
	}
}

// Stop erases the status line and waits for the spinner goroutine to exit,
// so nothing is written over later output. Safe to call more than once.
func (sw *StatusWriter) Stop() {
	sw.stop.Do(func() { close(sw.quit) })
	<-sw.done
}

func (sw *StatusWriter) loop() {
	defer close(sw.done)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var (
		message string
		since   = time.Now()
		frame   int
	)
	for {
		select {
		case <-sw.quit:
			fmt.Fprint(sw.w, "\r\033[K")
			return
		case msg := <-sw.updates:
			message = msg
			since = time.Now()
		case <-ticker.C:
			spinner := spinnerFrames[frame%len(spinnerFrames)]
			frame++
			fmt.Fprintf(sw.w, "\r\033[K%s %s (%s)", spinner, message, formatElapsed(time.Since(since)))
		}
	}
}

// formatElapsed keeps phase timers short: sub-second values show
// milliseconds, under a minute shows seconds, beyond that minutes.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
