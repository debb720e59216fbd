package timeline

import (
	"fmt"
	"strings"
)

// timeEpsilon absorbs float dust when comparing offsets against slot edges.
const timeEpsilon = 1e-9

// Layout carries the fixed texts and screen geometry stamped onto every
// video: the title block shown for the whole content portion, the per
// section heading decoration and the closing call to action.
type Layout struct {
	Title    string
	Date     string
	CTA      string
	RuleText string

	TitlePos       Position
	TitleRulePos   Position
	DatePos        Position
	HeadingPos     Position
	HeadingRulePos Position
	BodyPos        Position
	CTAPos         Position

	HeadingFade float64
	BodyFade    float64
	CTAFadeIn   float64
}

// SectionPlan pairs a section's chunks with the duration it was allotted.
type SectionPlan struct {
	Label    string
	Allotted float64
	Chunks   []Chunk
}

// Compose lays the sections out back to back, pins the title block over the
// content portion and appends the call to action so the video ends at
// exactly targetSec. A section's chunks may carry more time than the section
// was allotted (minimum page durations, floor clamping); whatever spills
// past the slot is trimmed from the trailing chunk or dropped, and reported
// as a Truncation so callers can log it.
func Compose(targetSec, ctaSec float64, layout Layout, plans []SectionPlan) (Timeline, error) {
	if targetSec <= 0 {
		return Timeline{}, fmt.Errorf("compose: target duration %.3fs is not positive", targetSec)
	}
	if ctaSec < 0 || ctaSec >= targetSec {
		return Timeline{}, fmt.Errorf("compose: call-to-action duration %.3fs must fit inside the %.3fs target", ctaSec, targetSec)
	}
	contentEnd := targetSec - ctaSec

	var (
		sectionElems []TimedElement
		spans        []SectionSpan
		truncs       []Truncation
		running      float64
	)
	for _, plan := range plans {
		remaining := contentEnd - running
		if remaining < timeEpsilon {
			remaining = 0
		}
		slot := plan.Allotted
		if slot > remaining {
			slot = remaining
		}
		if slot <= timeEpsilon {
			// Earlier sections consumed the whole content window.
			truncs = append(truncs, Truncation{
				Section:       plan.Label,
				Allotted:      plan.Allotted,
				Realized:      chunkSpan(plan.Chunks),
				TrimmedSec:    chunkSpan(plan.Chunks),
				DroppedChunks: len(plan.Chunks),
			})
			spans = append(spans, SectionSpan{Label: plan.Label, Start: running})
			continue
		}

		start := running
		sectionElems = append(sectionElems,
			TimedElement{
				Layer:    LayerHeading,
				Text:     plan.Label,
				Start:    start,
				Duration: slot,
				Position: layout.HeadingPos,
				FadeIn:   layout.HeadingFade,
				FadeOut:  layout.HeadingFade,
			},
			TimedElement{
				Layer:    LayerHeadingRule,
				Text:     layout.RuleText,
				Start:    start,
				Duration: slot,
				Position: layout.HeadingRulePos,
				FadeIn:   layout.HeadingFade,
				FadeOut:  layout.HeadingFade,
			},
		)

		var trimmed float64
		dropped := 0
		for _, chunk := range plan.Chunks {
			if chunk.StartOffset >= slot-timeEpsilon {
				dropped++
				trimmed += chunk.Duration
				continue
			}
			dur := chunk.Duration
			if chunk.StartOffset+dur > slot+timeEpsilon {
				trimmed += chunk.StartOffset + dur - slot
				dur = slot - chunk.StartOffset
			}
			sectionElems = append(sectionElems, TimedElement{
				Layer:    LayerBody,
				Text:     strings.Join(chunk.Lines, "\n"),
				Lines:    chunk.Lines,
				Start:    start + chunk.StartOffset,
				Duration: dur,
				Position: layout.BodyPos,
				FadeIn:   layout.BodyFade,
				FadeOut:  layout.BodyFade,
			})
		}
		if trimmed > timeEpsilon || dropped > 0 {
			truncs = append(truncs, Truncation{
				Section:       plan.Label,
				Allotted:      plan.Allotted,
				Realized:      chunkSpan(plan.Chunks),
				TrimmedSec:    trimmed,
				DroppedChunks: dropped,
			})
		}
		spans = append(spans, SectionSpan{Label: plan.Label, Start: start, Duration: slot})
		running += slot
	}
	contentSpan := running

	elements := make([]TimedElement, 0, len(sectionElems)+4)
	if layout.Title != "" {
		elements = append(elements, TimedElement{
			Layer:    LayerTitle,
			Text:     layout.Title,
			Duration: contentSpan,
			Position: layout.TitlePos,
		})
		if layout.RuleText != "" {
			elements = append(elements, TimedElement{
				Layer:    LayerTitleRule,
				Text:     layout.RuleText,
				Duration: contentSpan,
				Position: layout.TitleRulePos,
			})
		}
	}
	if layout.Date != "" {
		elements = append(elements, TimedElement{
			Layer:    LayerDate,
			Text:     layout.Date,
			Duration: contentSpan,
			Position: layout.DatePos,
		})
	}
	elements = append(elements, sectionElems...)
	if ctaSec > 0 && layout.CTA != "" {
		elements = append(elements, TimedElement{
			Layer:    LayerCTA,
			Text:     layout.CTA,
			Start:    contentEnd,
			Duration: ctaSec,
			Position: layout.CTAPos,
			FadeIn:   layout.CTAFadeIn,
		})
	}

	return Timeline{
		Target:      targetSec,
		ContentEnd:  contentEnd,
		Elements:    elements,
		Sections:    spans,
		Truncations: truncs,
	}, nil
}

func chunkSpan(chunks []Chunk) float64 {
	var total float64
	for _, c := range chunks {
		total += c.Duration
	}
	return total
}
