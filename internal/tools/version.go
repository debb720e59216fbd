package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// readVersion runs the tool's version switch and reduces the banner to a
// bare version string.
func readVersion(ctx context.Context, path, versionSwitch string) (string, error) {
	out, err := exec.CommandContext(ctx, path, versionSwitch).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", path, versionSwitch, err)
	}
	banner := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(banner, '\n'); idx >= 0 {
		banner = banner[:idx]
	}
	return extractVersion(banner), nil
}

// extractVersion pulls the first dotted numeric version out of a banner line
// such as "ffmpeg version 6.1.1-3ubuntu5 Copyright ...". Distro suffixes
// after a dash are dropped. A line without digits comes back unchanged.
func extractVersion(line string) string {
	start := strings.IndexFunc(line, isVersionDigit)
	if start < 0 {
		return line
	}
	end := start
	for end < len(line) {
		ch := line[end]
		if ch >= '0' && ch <= '9' {
			end++
			continue
		}
		if ch == '.' && end+1 < len(line) && line[end+1] >= '0' && line[end+1] <= '9' {
			end++
			continue
		}
		break
	}
	return line[start:end]
}

func isVersionDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// meetsMinimum compares dotted versions segment by segment. Missing
// segments count as zero, so "4.4" meets "4.4" but not "4.4.1".
func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}

	have := splitSegments(version)
	want := splitSegments(minimum)
	n := len(have)
	if len(want) > n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		h, w := segmentAt(have, i), segmentAt(want, i)
		if h != w {
			return h > w
		}
	}
	return true
}

func segmentAt(segments []int, i int) int {
	if i < len(segments) {
		return segments[i]
	}
	return 0
}

// splitSegments collects every run of digits in order, tolerating suffixes
// like "-3ubuntu5" that survive lax extraction.
func splitSegments(version string) []int {
	fields := strings.FieldsFunc(version, func(r rune) bool {
		return !isVersionDigit(r)
	})
	segments := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		segments = append(segments, n)
	}
	return segments
}
