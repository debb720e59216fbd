package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func projectRootWithAssets(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"assets/backgrounds", "assets/music"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func findResult(results []ValidationResult, level, substr string) bool {
	for _, r := range results {
		if r.Level == level && strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateStrictDefaultsAreClean(t *testing.T) {
	cfg := Default()
	results := cfg.ValidateStrict(projectRootWithAssets(t))
	for _, r := range results {
		if r.Level == "error" {
			t.Errorf("default config produced error: %s", r.Message)
		}
	}
}

func TestValidateBudgetBelowFloors(t *testing.T) {
	cfg := Default()
	cfg.Sections.Forecast.FloorSec = 30
	cfg.Sections.Finance.FloorSec = 20
	cfg.Sections.Wellness.FloorSec = 20

	results := cfg.ValidateStrict(projectRootWithAssets(t))
	if !findResult(results, "error", "below the combined section floors") {
		t.Fatalf("expected a budget error, got %+v", results)
	}
}

func TestValidateCTAConsumesTarget(t *testing.T) {
	cfg := Default()
	cfg.Timeline.CTASec = 59

	results := cfg.ValidateStrict(projectRootWithAssets(t))
	if !findResult(results, "error", "leaves no room") {
		t.Fatalf("expected a cta error, got %+v", results)
	}
}

func TestValidateUnknownPromptPlaceholder(t *testing.T) {
	cfg := Default()
	cfg.Sections.Finance.Prompt = "Tips for {sign} given {weather} today."

	results := cfg.ValidateStrict(projectRootWithAssets(t))
	if !findResult(results, "error", "unknown placeholder {weather}") {
		t.Fatalf("expected a placeholder error, got %+v", results)
	}
}

func TestValidateMissingPinnedBackground(t *testing.T) {
	cfg := Default()
	cfg.Assets.BackgroundVideo = "assets/space.mp4"

	results := cfg.ValidateStrict(projectRootWithAssets(t))
	if !findResult(results, "error", `background_video "assets/space.mp4" not found`) {
		t.Fatalf("expected a missing file error, got %+v", results)
	}
}

func TestValidateMissingAssetDirsWarn(t *testing.T) {
	cfg := Default()
	results := cfg.ValidateStrict(t.TempDir())
	if !findResult(results, "warning", "backgrounds_dir") {
		t.Fatalf("expected a backgrounds_dir warning, got %+v", results)
	}
}

func TestValidateAggressiveMinChunkWarns(t *testing.T) {
	cfg := Default()
	cfg.Timeline.MinChunkSec = 7

	results := cfg.ValidateStrict(projectRootWithAssets(t))
	if !findResult(results, "warning", "min_chunk_seconds") {
		t.Fatalf("expected a min chunk warning, got %+v", results)
	}
}

func TestValidateInvertedChunkThresholds(t *testing.T) {
	cfg := Default()
	cfg.Timeline.SingleChunkMax = 16
	cfg.Timeline.DoubleChunkMax = 8

	results := cfg.ValidateStrict(projectRootWithAssets(t))
	if !findResult(results, "error", "chunk thresholds") {
		t.Fatalf("expected a threshold error, got %+v", results)
	}
}

func TestExtractPromptTokens(t *testing.T) {
	tests := []struct {
		prompt string
		want   []string
	}{
		{prompt: "plain text", want: nil},
		{prompt: "hello {sign}", want: []string{"sign"}},
		{prompt: "{sign} at {btc_price} during {market_trend}", want: []string{"sign", "btc_price", "market_trend"}},
		{prompt: "unterminated {sign", want: nil},
		{prompt: "empty {} braces", want: nil},
		{prompt: "{UPPER} stays literal", want: nil},
	}
	for _, tc := range tests {
		got := extractPromptTokens(tc.prompt)
		if len(got) != len(tc.want) {
			t.Errorf("extractPromptTokens(%q) = %v, want %v", tc.prompt, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("extractPromptTokens(%q) = %v, want %v", tc.prompt, got, tc.want)
				break
			}
		}
	}
}
