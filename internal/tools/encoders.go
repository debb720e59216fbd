package tools

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// CheckEncoder confirms ffmpeg can actually encode with the given codec by
// rendering a single black frame to the null muxer. An encoder can be listed
// in the build yet still fail at runtime, hardware ones in particular.
func CheckEncoder(ctx context.Context, ffmpegPath, codec string) error {
	if strings.TrimSpace(codec) == "" {
		return errors.New("no codec configured")
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=1:r=1",
		"-c:v", codec, "-frames:v", "1",
		"-f", "null", "-",
	}
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return errors.Errorf("encoder %s unusable: %s", codec, firstLine(msg))
	}
	return nil
}

// firstLine returns text up to the first newline.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
