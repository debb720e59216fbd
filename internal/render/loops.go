package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

// WriteLoopList writes an ffmpeg concat demuxer list that repeats mediaPath
// once per loop of the plan. The concat demuxer plays the copies back to
// back; the render trims the tail with -t so the output lands exactly on the
// plan's target.
func WriteLoopList(listPath, mediaPath string, plan timeline.MediaPlan) error {
	if plan.LoopCount < 1 {
		return errors.Errorf("loop count %d must be at least 1", plan.LoopCount)
	}
	if _, err := os.Stat(mediaPath); err != nil {
		return errors.Wrapf(err, "loop source %s", mediaPath)
	}

	abs, err := filepath.Abs(mediaPath)
	if err != nil {
		abs = mediaPath
	}
	// Escape single quotes in paths for the concat file format.
	escaped := strings.ReplaceAll(abs, "'", "'\\''")

	var b strings.Builder
	for i := 0; i < plan.LoopCount; i++ {
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}

	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(err, "write loop list")
	}
	return nil
}
