package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// sendDelay is the pause after each message so the renderer gets a frame in
// between row updates. A catalog run sends a few dozen messages, so the
// total added latency stays well under one render tick per sign.
const sendDelay = 5 * time.Millisecond

// RunWithWork drives model in a bubbletea program while workFn runs in a
// background goroutine. workFn reports through its send callback; when it
// returns, the program receives WorkDoneMsg and shuts down. The returned
// error is the program's own failure or the model's fatal error.
func RunWithWork(out io.Writer, model ProgressModel, workFn func(send func(tea.Msg))) error {
	program := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Give the event loop a beat to draw the initial frame.
		time.Sleep(50 * time.Millisecond)

		workFn(func(msg tea.Msg) {
			program.Send(msg)
			time.Sleep(sendDelay)
		})
		program.Send(WorkDoneMsg{})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ProgressModel); ok {
		return m.Err()
	}
	return nil
}
