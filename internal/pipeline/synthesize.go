package pipeline

import (
	"strings"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/content"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

// BuildTimeline runs the synthesis engine for one sign: wraps the section
// texts, pages them into chunks, divides the content window across the
// sections and composes the final element list. Pure except for the config
// it reads; the video date is an input, never the clock.
func BuildTimeline(cfg config.Config, sign string, date time.Time, texts content.Texts) (timeline.Timeline, error) {
	sections := []timeline.Section{
		{Label: cfg.Sections.Forecast.Heading, Body: texts.Forecast, Floor: cfg.Sections.Forecast.FloorSec},
		{Label: cfg.Sections.Finance.Heading, Body: texts.Finance, Floor: cfg.Sections.Finance.FloorSec},
		{Label: cfg.Sections.Wellness.Heading, Body: texts.Wellness, Floor: cfg.Sections.Wellness.FloorSec},
	}

	budget := cfg.Timeline.TargetSec - cfg.Timeline.CTASec
	alloc, err := timeline.Allocate(sections, budget)
	if err != nil {
		return timeline.Timeline{}, err
	}

	policy := timeline.ChunkPolicy{
		SingleMax:    cfg.Timeline.SingleChunkMax,
		DoubleMax:    cfg.Timeline.DoubleChunkMax,
		LinesPerPage: cfg.Timeline.LinesPerChunk,
		MinChunkSec:  cfg.Timeline.MinChunkSec,
	}
	plans := make([]timeline.SectionPlan, len(sections))
	for i, sec := range sections {
		lines := timeline.WrapLines(sec.Body, cfg.Timeline.WrapWidth)
		plans[i] = timeline.SectionPlan{
			Label:    sec.Label,
			Allotted: alloc.Durations[i],
			Chunks:   timeline.BuildChunks(lines, alloc.Durations[i], policy),
		}
	}

	return timeline.Compose(cfg.Timeline.TargetSec, cfg.Timeline.CTASec, BuildLayout(cfg.Text, sign, date), plans)
}

// BuildLayout maps the text settings onto the composer's screen geometry for
// one sign and date.
func BuildLayout(t config.TextSettings, sign string, date time.Time) timeline.Layout {
	return timeline.Layout{
		Title:    strings.ReplaceAll(t.TitleTemplate, "{sign}", sign),
		Date:     date.Format(t.DateFormat),
		CTA:      t.CTAText,
		RuleText: strings.Repeat("━", t.RuleWidth),

		TitlePos:       timeline.Position{HAlign: "center", Y: float64(t.TitleY)},
		TitleRulePos:   timeline.Position{HAlign: "center", Y: float64(t.TitleRuleY)},
		DatePos:        timeline.Position{HAlign: "center", Y: float64(t.DateY)},
		HeadingPos:     timeline.Position{HAlign: "center", Y: float64(t.HeadingY)},
		HeadingRulePos: timeline.Position{HAlign: "center", Y: float64(t.HeadingRuleY)},
		BodyPos:        timeline.Position{HAlign: "center", Y: float64(t.BodyY)},
		CTAPos:         timeline.Position{HAlign: "center", VCenter: true},

		HeadingFade: t.HeadingFadeSec,
		BodyFade:    t.BodyFadeSec,
		CTAFadeIn:   t.CTAFadeInSec,
	}
}
