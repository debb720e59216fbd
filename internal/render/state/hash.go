// Package state tracks which shorts are up to date so repeat runs skip
// renders whose inputs have not changed.
package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

// Inputs captures everything that shapes one rendered short.
type Inputs struct {
	Sign            string `json:"sign"`
	Date            string `json:"date"`
	Forecast        string `json:"forecast"`
	Finance         string `json:"finance"`
	Wellness        string `json:"wellness"`
	BackgroundVideo string `json:"background_video"`
	BackgroundMusic string `json:"background_music"`
}

// configInput is the canonical structure hashed for config changes. Upload
// and provider settings do not affect the rendered pixels, so they are
// left out.
type configInput struct {
	Video    config.VideoSettings    `json:"video"`
	Audio    config.AudioSettings    `json:"audio"`
	Timeline config.TimelineSettings `json:"timeline"`
	Text     config.TextSettings     `json:"text"`
	Sections config.SectionSettings  `json:"sections"`
}

// ConfigHash returns a deterministic hash of the config sections that shape
// every short.
func ConfigHash(cfg config.Config) string {
	return hashJSON(configInput{
		Video:    cfg.Video,
		Audio:    cfg.Audio,
		Timeline: cfg.Timeline,
		Text:     cfg.Text,
		Sections: cfg.Sections,
	})
}

// InputsHash returns a deterministic hash of one sign's render inputs.
func InputsHash(in Inputs) string {
	return hashJSON(in)
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Should never happen with known struct types.
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}
