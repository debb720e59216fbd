// Package timeline turns sectioned text into a fully timed layout for a
// fixed-length vertical video. It is pure arithmetic: no clocks, no I/O,
// no randomness. Given the same inputs it always produces the same plan.
package timeline

// Layer identifies the visual slot an element occupies. Elements sharing a
// layer never overlap in time.
type Layer string

const (
	LayerTitle       Layer = "title"
	LayerTitleRule   Layer = "title-rule"
	LayerDate        Layer = "date"
	LayerHeading     Layer = "heading"
	LayerHeadingRule Layer = "heading-rule"
	LayerBody        Layer = "body"
	LayerCTA         Layer = "cta"
)

// Position places an element on the frame. HAlign is "center", "left" or
// "right". Y is the pixel offset from the top edge; VCenter ignores Y and
// centers the element vertically instead.
type Position struct {
	HAlign  string  `json:"halign"`
	Y       float64 `json:"y"`
	VCenter bool    `json:"vcenter,omitempty"`
}

// TimedElement is one piece of on-screen text with an absolute start and
// duration on the global clock.
type TimedElement struct {
	Layer    Layer    `json:"layer"`
	Text     string   `json:"text"`
	Lines    []string `json:"lines,omitempty"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	Position Position `json:"position"`
	FadeIn   float64  `json:"fade_in,omitempty"`
	FadeOut  float64  `json:"fade_out,omitempty"`
}

// End returns the absolute second at which the element leaves the screen.
func (e TimedElement) End() float64 {
	return e.Start + e.Duration
}

// Chunk is one page of wrapped lines together with its offset and duration
// relative to the start of its section.
type Chunk struct {
	Lines       []string `json:"lines"`
	StartOffset float64  `json:"start_offset"`
	Duration    float64  `json:"duration"`
}

// Section is one variable-length text block of the video.
type Section struct {
	Label string
	Body  string
	Floor float64
}

// SectionSpan records where a section actually landed on the global clock.
type SectionSpan struct {
	Label    string  `json:"label"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Truncation records content that was cut so the video could end on time.
type Truncation struct {
	Section       string  `json:"section"`
	Allotted      float64 `json:"allotted"`
	Realized      float64 `json:"realized"`
	TrimmedSec    float64 `json:"trimmed_seconds"`
	DroppedChunks int     `json:"dropped_chunks"`
}

// Timeline is the complete render plan for one video.
type Timeline struct {
	Target      float64        `json:"target"`
	ContentEnd  float64        `json:"content_end"`
	Elements    []TimedElement `json:"elements"`
	Sections    []SectionSpan  `json:"sections"`
	Truncations []Truncation   `json:"truncations,omitempty"`
}
