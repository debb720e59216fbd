package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
)

// PipelineReporter adapts bubbletea message sending to the
// pipeline.ProgressReporter interface. Rows are keyed by sign name and carry
// STATUS, TIME and DETAIL columns.
type PipelineReporter struct {
	send func(tea.Msg)
}

// NewPipelineReporter constructs a reporter that forwards progress through
// the given send callback.
func NewPipelineReporter(send func(tea.Msg)) *PipelineReporter {
	return &PipelineReporter{send: send}
}

// Start implements pipeline.ProgressReporter.
func (r *PipelineReporter) Start(job pipeline.Job) {
	r.send(RowUpdateMsg{
		Key:    job.Sign.Name,
		Fields: map[string]string{"STATUS": "rendering"},
	})
}

// Complete implements pipeline.ProgressReporter.
func (r *PipelineReporter) Complete(res pipeline.Result) {
	fields := map[string]string{
		"TIME": formatElapsed(res.Elapsed),
	}
	switch {
	case res.Err != nil:
		fields["STATUS"] = "failed"
		fields["DETAIL"] = res.Err.Error()
	case res.Skipped:
		fields["STATUS"] = "skipped"
		fields["DETAIL"] = res.Reason
	default:
		fields["STATUS"] = "rendered"
		fields["DETAIL"] = res.OutputPath
	}
	r.send(RowUpdateMsg{Key: res.Sign, Fields: fields})
}
