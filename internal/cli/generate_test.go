package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

func TestPlainReporterLines(t *testing.T) {
	var buf bytes.Buffer
	reporter := &plainReporter{out: &buf}

	reporter.Complete(pipeline.Result{
		Sign:       "Aries",
		OutputPath: "/videos/youtube_shorts/Aries_20260825_120000.mp4",
		Elapsed:    12300 * time.Millisecond,
	})
	reporter.Complete(pipeline.Result{
		Sign:    "Taurus",
		Skipped: true,
		Reason:  "up-to-date",
	})
	reporter.Complete(pipeline.Result{
		Sign: "Leo",
		Err:  errors.New("ffmpeg exited with status 1"),
	})

	out := buf.String()
	for _, want := range []string{
		"rendered Aries -> /videos/youtube_shorts/Aries_20260825_120000.mp4 (12.3s)",
		"skipped  Taurus (up-to-date)",
		"failed   Leo: ffmpeg exited with status 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildGenerateModelSeedsPendingRows(t *testing.T) {
	signs, err := zodiac.Subset(zodiac.All(), []string{"Aries", "Virgo"})
	if err != nil {
		t.Fatal(err)
	}

	model := buildGenerateModel(signs)
	view := model.View()

	for _, want := range []string{"Generating shorts", "Aries", "Virgo", "pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWriteGenerateSummary(t *testing.T) {
	var buf bytes.Buffer
	writeGenerateSummary(&buf, pipeline.Summary{
		RunID:    "a1b2c3d4",
		Rendered: 10,
		Skipped:  1,
		Failed:   1,
		Elapsed:  90 * time.Second,
	})

	want := "Run a1b2c3d4: 10 rendered, 1 skipped, 1 failed (90.0s)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteGenerateJSON(t *testing.T) {
	summary := pipeline.Summary{
		RunID: "a1b2c3d4",
		Date:  time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC),
		Results: []pipeline.Result{
			{Sign: "Aries", OutputPath: "/out/Aries.mp4", Elapsed: 9 * time.Second},
			{Sign: "Leo", Err: errors.New("render blew up")},
		},
		Rendered: 1,
		Failed:   1,
		Elapsed:  15 * time.Second,
	}

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := writeGenerateJSON(cmd, "/proj", summary); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`"project": "/proj"`,
		`"run_id": "a1b2c3d4"`,
		`"date": "2026-08-25"`,
		`"sign": "Aries"`,
		`"error": "render blew up"`,
		`"rendered": 1`,
		`"failed": 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("json missing %q:\n%s", want, out)
		}
	}
}
