package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/content"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

var testDate = time.Date(2026, time.August, 25, 6, 30, 0, 0, time.UTC)

func testTexts() content.Texts {
	return content.Texts{
		Forecast: "Today brings opportunities for bold action. Your natural leadership shines, attracting positive attention. Trust your instincts in both personal and professional matters.",
		Finance:  "Do: review your budget before noon. Don't: chase yesterday's rally without a plan.",
		Wellness: "Prioritize eight hours of sleep tonight. Take short breaks to stretch and move.",
	}
}

func TestBuildTimelineShape(t *testing.T) {
	cfg := config.Default()
	tl, err := BuildTimeline(cfg, "Aries", testDate, testTexts())
	if err != nil {
		t.Fatalf("BuildTimeline returned error: %v", err)
	}

	if tl.Target != 59 {
		t.Errorf("target = %v, want 59", tl.Target)
	}
	if tl.ContentEnd != 54 {
		t.Errorf("content end = %v, want 54", tl.ContentEnd)
	}
	if len(tl.Sections) != 3 {
		t.Fatalf("expected 3 section spans, got %d", len(tl.Sections))
	}
	var span float64
	for _, s := range tl.Sections {
		span += s.Duration
	}
	if diff := span - 54; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("section spans cover %vs, want 54", span)
	}

	first := tl.Elements[0]
	if first.Layer != timeline.LayerTitle || first.Text != "✨ Aries ✨" {
		t.Errorf("first element = %s %q", first.Layer, first.Text)
	}
	if first.Position.Y != 160 || first.Start != 0 || first.Duration != 54 {
		t.Errorf("title geometry = y%v start%v dur%v", first.Position.Y, first.Start, first.Duration)
	}

	last := tl.Elements[len(tl.Elements)-1]
	if last.Layer != timeline.LayerCTA {
		t.Fatalf("last element layer = %s, want cta", last.Layer)
	}
	if last.Start != 54 || last.Duration != 5 {
		t.Errorf("cta timing = start%v dur%v", last.Start, last.Duration)
	}
	if !last.Position.VCenter {
		t.Errorf("cta should be vertically centered")
	}
	if last.FadeIn != 0.5 || last.FadeOut != 0 {
		t.Errorf("cta fades = in%v out%v", last.FadeIn, last.FadeOut)
	}

	var sawDate, sawHeading bool
	for _, el := range tl.Elements {
		switch el.Layer {
		case timeline.LayerDate:
			sawDate = true
			if el.Text != "25 Aug 2026" {
				t.Errorf("date text = %q", el.Text)
			}
		case timeline.LayerHeading:
			sawHeading = true
		}
	}
	if !sawDate || !sawHeading {
		t.Errorf("missing elements: date=%v heading=%v", sawDate, sawHeading)
	}
}

func TestBuildTimelineBudgetBelowFloors(t *testing.T) {
	cfg := config.Default()
	cfg.Timeline.TargetSec = 20

	_, err := BuildTimeline(cfg, "Aries", testDate, testTexts())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "below the combined") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildTimelineEmptyTextsStillComposes(t *testing.T) {
	cfg := config.Default()
	tl, err := BuildTimeline(cfg, "Virgo", testDate, content.Texts{})
	if err != nil {
		t.Fatalf("BuildTimeline returned error: %v", err)
	}
	for _, el := range tl.Elements {
		if el.Layer == timeline.LayerBody {
			t.Errorf("empty texts should produce no body elements, got %q", el.Text)
		}
	}
	if len(tl.Sections) != 3 {
		t.Errorf("expected 3 section spans, got %d", len(tl.Sections))
	}
}

func TestBuildLayout(t *testing.T) {
	cfg := config.Default()
	layout := BuildLayout(cfg.Text, "Sagittarius", testDate)

	if layout.Title != "✨ Sagittarius ✨" {
		t.Errorf("title = %q", layout.Title)
	}
	if layout.Date != "25 Aug 2026" {
		t.Errorf("date = %q", layout.Date)
	}
	if layout.RuleText != strings.Repeat("━", 20) {
		t.Errorf("rule text = %q", layout.RuleText)
	}
	if layout.TitlePos.Y != 160 || layout.BodyPos.Y != 910 {
		t.Errorf("positions = title %v body %v", layout.TitlePos.Y, layout.BodyPos.Y)
	}
	if !layout.CTAPos.VCenter {
		t.Errorf("cta position should be vertically centered")
	}
	if layout.HeadingFade != 0.8 || layout.CTAFadeIn != 0.5 {
		t.Errorf("fades = heading %v cta %v", layout.HeadingFade, layout.CTAFadeIn)
	}
}
