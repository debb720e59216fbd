package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// OutputName returns the file name for a rendered short,
// e.g. "Aries_20260825_063000.mp4".
func OutputName(sign string, at time.Time) string {
	base := sanitizeName(sign)
	if base == "" {
		base = "short"
	}
	return fmt.Sprintf("%s_%s.mp4", base, at.Format("20060102_150405"))
}

// FindNewestShort returns the most recent rendered short for a sign under
// dir, matching the OutputName scheme.
func FindNewestShort(dir, sign string) (string, error) {
	pattern := filepath.Join(dir, sanitizeName(sign)+"_*.mp4")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", errors.Wrapf(err, "glob %s", pattern)
	}
	if len(matches) == 0 {
		return "", errors.Errorf("no rendered short for %s under %s", sign, dir)
	}

	newest := ""
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", errors.Errorf("no readable short for %s under %s", sign, dir)
	}
	return newest, nil
}

func sanitizeName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var builder strings.Builder
	lastUnderscore := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastUnderscore = false
		case r == '-':
			builder.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				builder.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	result := strings.Trim(builder.String(), "_-")
	if len(result) > 64 {
		result = result[:64]
	}
	return result
}
