package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
)

var uploadTestDate = time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)

func TestRecordUploads(t *testing.T) {
	t.Run("records urls into the day's manifest", func(t *testing.T) {
		pp, err := paths.Resolve(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		meta := pipeline.Metadata{Date: "2026-08-25", Shorts: map[string]string{"Aries": "videos/a.mp4"}}
		if err := pipeline.WriteMetadata(pp.MetadataFile, meta); err != nil {
			t.Fatal(err)
		}

		results := []uploadResult{
			{Sign: "Aries", URL: "https://youtube.com/watch?v=abc"},
			{Sign: "Leo", Error: "no rendered short"},
		}
		if err := recordUploads(pp, uploadTestDate, results, &captureLogger{}); err != nil {
			t.Fatal(err)
		}

		got, err := pipeline.LoadMetadata(pp.MetadataFile)
		if err != nil {
			t.Fatal(err)
		}
		if got.Uploads["Aries"] != "https://youtube.com/watch?v=abc" {
			t.Errorf("url not recorded: %+v", got.Uploads)
		}
		if _, ok := got.Uploads["Leo"]; ok {
			t.Errorf("failed upload should not be recorded")
		}
	})

	t.Run("leaves a manifest from another date alone", func(t *testing.T) {
		pp, err := paths.Resolve(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		meta := pipeline.Metadata{Date: "2026-08-24"}
		if err := pipeline.WriteMetadata(pp.MetadataFile, meta); err != nil {
			t.Fatal(err)
		}

		logger := &captureLogger{}
		results := []uploadResult{{Sign: "Aries", URL: "https://youtube.com/watch?v=abc"}}
		if err := recordUploads(pp, uploadTestDate, results, logger); err != nil {
			t.Fatal(err)
		}

		got, err := pipeline.LoadMetadata(pp.MetadataFile)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Uploads) != 0 {
			t.Errorf("stale manifest should stay untouched: %+v", got.Uploads)
		}
		if len(logger.lines) == 0 {
			t.Errorf("date mismatch should be logged")
		}
	})
}

func TestWriteUploadOutput(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	results := []uploadResult{
		{Sign: "Aries", URL: "https://youtube.com/watch?v=abc"},
		{Sign: "Leo", Error: "no rendered short for Leo"},
	}
	writeUploadOutput(cmd, "/proj", results, 1)

	out := buf.String()
	for _, want := range []string{
		"Project: /proj",
		"uploaded Aries -> https://youtube.com/watch?v=abc",
		"failed   Leo: no rendered short for Leo",
		"Uploaded: 1, Failed: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
