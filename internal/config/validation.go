package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// knownPromptTokens are the placeholders substituted into section prompts.
var knownPromptTokens = []string{"sign", "date", "btc_price", "market_trend"}

// ValidateStrict runs all validations against the config and returns
// structured results. Asset paths resolve relative to projectRoot.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVideo()...)
	results = append(results, c.validateAudio()...)
	results = append(results, c.validateTimeline()...)
	results = append(results, c.validateText()...)
	results = append(results, c.validateSections()...)
	results = append(results, c.validateAssets(projectRoot)...)
	return results
}

func (c Config) validateVideo() []ValidationResult {
	var results []ValidationResult
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video resolution %dx%d is invalid", c.Video.Width, c.Video.Height),
		})
	}
	if c.Video.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video fps %d must be > 0", c.Video.FPS),
		})
	}
	if c.Video.Width > 0 && c.Video.Height > 0 && c.Video.Width >= c.Video.Height {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("video resolution %dx%d is not portrait; shorts are expected taller than wide", c.Video.Width, c.Video.Height),
		})
	}
	return results
}

func (c Config) validateAudio() []ValidationResult {
	var results []ValidationResult
	if c.Audio.MusicVolume < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("audio music_volume %.2f must be >= 0", c.Audio.MusicVolume),
		})
	}
	if c.Audio.MusicVolume > 1 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("audio music_volume %.2f amplifies the source; values at or below 1.0 are typical", c.Audio.MusicVolume),
		})
	}
	return results
}

func (c Config) validateTimeline() []ValidationResult {
	var results []ValidationResult
	t := c.Timeline
	if t.TargetSec <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline target_seconds %.2f must be > 0", t.TargetSec),
		})
	}
	if t.CTASec < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline cta_seconds %.2f must be >= 0", t.CTASec),
		})
	}
	if t.TargetSec > 0 && t.CTASec >= t.TargetSec {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline cta_seconds %.2f leaves no room inside target_seconds %.2f", t.CTASec, t.TargetSec),
		})
	}
	if t.MinChunkSec <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline min_chunk_seconds %.2f must be > 0", t.MinChunkSec),
		})
	}
	if t.WrapWidth <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline wrap_width %d must be > 0", t.WrapWidth),
		})
	}
	if t.SingleChunkMax <= 0 || t.DoubleChunkMax < t.SingleChunkMax {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline chunk thresholds %d/%d must be increasing and > 0", t.SingleChunkMax, t.DoubleChunkMax),
		})
	}
	if t.LinesPerChunk <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("timeline lines_per_chunk %d must be > 0", t.LinesPerChunk),
		})
	}

	budget := t.TargetSec - t.CTASec
	if floors := c.Sections.FloorTotal(); budget > 0 && budget < floors {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("content budget %.2fs (target minus cta) is below the combined section floors %.2fs", budget, floors),
		})
	}
	smallest := c.Sections.Forecast.FloorSec
	for _, s := range c.Sections.Ordered() {
		if s.FloorSec < smallest {
			smallest = s.FloorSec
		}
	}
	if t.MinChunkSec > 0 && smallest > 0 && t.MinChunkSec*2 > smallest {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("min_chunk_seconds %.2f is large next to the smallest section floor %.2fs; trailing pages will be trimmed often", t.MinChunkSec, smallest),
		})
	}
	return results
}

func (c Config) validateText() []ValidationResult {
	var results []ValidationResult
	if c.Text.RuleWidth <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("text rule_width %d must be > 0", c.Text.RuleWidth),
		})
	}
	if c.Text.DateFormat == "" {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "text date_format is required",
		})
	}
	for _, fade := range []struct {
		name  string
		value float64
	}{
		{"heading_fade_seconds", c.Text.HeadingFadeSec},
		{"body_fade_seconds", c.Text.BodyFadeSec},
		{"cta_fade_in_seconds", c.Text.CTAFadeInSec},
	} {
		if fade.value < 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("text %s %.2f must be >= 0", fade.name, fade.value),
			})
		}
	}
	return results
}

func (c Config) validateSections() []ValidationResult {
	var results []ValidationResult
	names := []string{"forecast", "finance", "wellness"}
	for i, section := range c.Sections.Ordered() {
		if strings.TrimSpace(section.Heading) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("section %s: heading is required", names[i]),
			})
		}
		if section.FloorSec < 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("section %s: floor_seconds %.2f must be >= 0", names[i], section.FloorSec),
			})
		}
		results = append(results, validatePromptTokens(names[i], section.Prompt)...)
	}
	return results
}

func validatePromptTokens(section, prompt string) []ValidationResult {
	known := make(map[string]bool, len(knownPromptTokens))
	for _, t := range knownPromptTokens {
		known[t] = true
	}

	var results []ValidationResult
	for _, tok := range extractPromptTokens(prompt) {
		if !known[tok] {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("section %s: prompt contains unknown placeholder {%s} (known: %s)", section, tok, strings.Join(knownPromptTokens, ", ")),
			})
		}
	}
	return results
}

func (c Config) validateAssets(projectRoot string) []ValidationResult {
	var results []ValidationResult
	for _, ref := range []struct {
		name string
		path string
	}{
		{"background_video", c.Assets.BackgroundVideo},
		{"background_music", c.Assets.BackgroundMusic},
	} {
		if ref.path == "" {
			continue
		}
		resolved := ref.path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("assets %s %q not found", ref.name, ref.path),
			})
		}
	}
	for _, ref := range []struct {
		name string
		path string
	}{
		{"backgrounds_dir", c.Assets.BackgroundsDir},
		{"music_dir", c.Assets.MusicDir},
	} {
		if ref.path == "" {
			continue
		}
		resolved := ref.path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		if info, err := os.Stat(resolved); err != nil || !info.IsDir() {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("assets %s %q is not a directory; runs will fail until it exists", ref.name, ref.path),
			})
		}
	}
	if c.SignsFile != "" {
		resolved := c.SignsFile
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("signs_file %q not found", c.SignsFile),
			})
		}
	}
	return results
}

// extractPromptTokens parses {token} placeholders from a prompt template.
// Braces without a simple lowercase identifier inside are left alone.
func extractPromptTokens(prompt string) []string {
	var tokens []string
	for i := 0; i < len(prompt); {
		if prompt[i] != '{' {
			i++
			continue
		}
		j := i + 1
		for j < len(prompt) {
			ch := prompt[j]
			if (ch >= 'a' && ch <= 'z') || ch == '_' {
				j++
				continue
			}
			break
		}
		if j > i+1 && j < len(prompt) && prompt[j] == '}' {
			tokens = append(tokens, prompt[i+1:j])
			i = j + 1
			continue
		}
		i = j
	}
	return tokens
}
