package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

func TestWriteLoopList(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bg.mp4")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	listPath := filepath.Join(dir, "background.txt")
	plan := timeline.MediaPlan{SourceSec: 12, TargetSec: 59, LoopCount: 5, TrimEnd: 59}
	if err := WriteLoopList(listPath, source, plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("loop list has %d lines, want 5:\n%s", len(lines), data)
	}
	want := fmt.Sprintf("file '%s'", source)
	for i, line := range lines {
		if line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
	}
}

func TestWriteLoopListEscapesQuotes(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "om's chant.mp3")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	listPath := filepath.Join(dir, "music.txt")
	plan := timeline.MediaPlan{SourceSec: 30, TargetSec: 59, LoopCount: 2, TrimEnd: 59}
	if err := WriteLoopList(listPath, source, plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `om'\''s chant.mp3`) {
		t.Fatalf("quotes not escaped for the concat demuxer:\n%s", data)
	}
}

func TestWriteLoopListErrors(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bg.mp4")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		source  string
		plan    timeline.MediaPlan
		wantErr string
	}{
		{
			name:    "zero loops",
			source:  source,
			plan:    timeline.MediaPlan{LoopCount: 0},
			wantErr: "at least 1",
		},
		{
			name:    "missing source",
			source:  filepath.Join(dir, "missing.mp4"),
			plan:    timeline.MediaPlan{LoopCount: 1},
			wantErr: "loop source",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := WriteLoopList(filepath.Join(dir, "list.txt"), tc.source, tc.plan)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}
