package timeline

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func testLayout() Layout {
	return Layout{
		Title:          "✨ Aries ✨",
		Date:           "25 Aug 2026",
		CTA:            "🔔 SUBSCRIBE\n\nLIKE • SHARE • COMMENT",
		RuleText:       strings.Repeat("━", 20),
		TitlePos:       Position{HAlign: "center", Y: 160},
		TitleRulePos:   Position{HAlign: "center", Y: 260},
		DatePos:        Position{HAlign: "center", Y: 290},
		HeadingPos:     Position{HAlign: "center", Y: 40},
		HeadingRulePos: Position{HAlign: "center", Y: 140},
		BodyPos:        Position{HAlign: "center", Y: 910},
		CTAPos:         Position{HAlign: "center", VCenter: true},
		HeadingFade:    0.8,
		BodyFade:       0.8,
		CTAFadeIn:      0.5,
	}
}

// fittingPlan builds a section whose single chunk exactly fills its slot.
func fittingPlan(label string, allotted float64, lines ...string) SectionPlan {
	return SectionPlan{
		Label:    label,
		Allotted: allotted,
		Chunks:   []Chunk{{Lines: lines, StartOffset: 0, Duration: allotted}},
	}
}

func elementsOnLayer(tl Timeline, layer Layer) []TimedElement {
	var out []TimedElement
	for _, e := range tl.Elements {
		if e.Layer == layer {
			out = append(out, e)
		}
	}
	return out
}

func TestComposeGrandTotalIsExact(t *testing.T) {
	plans := []SectionPlan{
		fittingPlan("🌙 Daily Horoscope", 24, "stars align"),
		fittingPlan("💰 Wealth Tips", 16, "plan finances"),
		fittingPlan("🏥 Health Tips", 14, "drink water"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(tl.ContentEnd-54) > 1e-9 {
		t.Fatalf("content end = %v, want 54", tl.ContentEnd)
	}
	var latest float64
	for _, e := range tl.Elements {
		if e.End() > latest {
			latest = e.End()
		}
		if e.End() > tl.Target+1e-9 {
			t.Errorf("element %s/%q ends at %v, past the %v target", e.Layer, e.Text, e.End(), tl.Target)
		}
	}
	if math.Abs(latest-59) > 0.001 {
		t.Fatalf("latest element ends at %v, want 59 within 1ms", latest)
	}
	if len(tl.Truncations) != 0 {
		t.Fatalf("unexpected truncations: %+v", tl.Truncations)
	}
}

func TestComposeSectionsAreSequential(t *testing.T) {
	plans := []SectionPlan{
		fittingPlan("first", 24, "a"),
		fittingPlan("second", 16, "b"),
		fittingPlan("third", 14, "c"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSpans := []SectionSpan{
		{Label: "first", Start: 0, Duration: 24},
		{Label: "second", Start: 24, Duration: 16},
		{Label: "third", Start: 40, Duration: 14},
	}
	if !reflect.DeepEqual(tl.Sections, wantSpans) {
		t.Fatalf("spans = %+v, want %+v", tl.Sections, wantSpans)
	}

	ctas := elementsOnLayer(tl, LayerCTA)
	if len(ctas) != 1 {
		t.Fatalf("expected one call-to-action element, got %d", len(ctas))
	}
	if math.Abs(ctas[0].Start-54) > 1e-9 || math.Abs(ctas[0].Duration-5) > 1e-9 {
		t.Fatalf("cta spans %v+%v, want 54+5", ctas[0].Start, ctas[0].Duration)
	}
	if ctas[0].FadeIn != 0.5 || ctas[0].FadeOut != 0 {
		t.Fatalf("cta fades = %v/%v, want 0.5 in only", ctas[0].FadeIn, ctas[0].FadeOut)
	}
}

func TestComposeTitleBlockSpansContent(t *testing.T) {
	plans := []SectionPlan{
		fittingPlan("first", 24, "a"),
		fittingPlan("second", 16, "b"),
		fittingPlan("third", 14, "c"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, layer := range []Layer{LayerTitle, LayerTitleRule, LayerDate} {
		elems := elementsOnLayer(tl, layer)
		if len(elems) != 1 {
			t.Fatalf("expected one %s element, got %d", layer, len(elems))
		}
		e := elems[0]
		if e.Start != 0 || math.Abs(e.Duration-54) > 1e-9 {
			t.Errorf("%s spans %v+%v, want 0+54", layer, e.Start, e.Duration)
		}
		if e.FadeIn != 0 || e.FadeOut != 0 {
			t.Errorf("%s should not fade, got %v/%v", layer, e.FadeIn, e.FadeOut)
		}
	}
}

func TestComposeLayersNeverOverlap(t *testing.T) {
	lines := makeLines(20)
	chunks := BuildChunks(lines, 24, testPolicy)
	plans := []SectionPlan{
		{Label: "first", Allotted: 24, Chunks: chunks},
		fittingPlan("second", 16, "b"),
		fittingPlan("third", 14, "c"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byLayer := map[Layer][]TimedElement{}
	for _, e := range tl.Elements {
		byLayer[e.Layer] = append(byLayer[e.Layer], e)
	}
	for layer, elems := range byLayer {
		for i := 1; i < len(elems); i++ {
			prev, cur := elems[i-1], elems[i]
			if cur.Start < prev.End()-1e-9 {
				t.Errorf("layer %s overlaps: %q ends %v, %q starts %v",
					layer, prev.Text, prev.End(), cur.Text, cur.Start)
			}
		}
	}
}

func TestComposeEveryLineShownOnceInOrder(t *testing.T) {
	lines := makeLines(23)
	chunks := BuildChunks(lines, 24, testPolicy)
	plans := []SectionPlan{
		{Label: "first", Allotted: 24, Chunks: chunks},
		fittingPlan("second", 16, "tip one"),
		fittingPlan("third", 14, "tip two"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var shown []string
	for _, e := range elementsOnLayer(tl, LayerBody) {
		shown = append(shown, e.Lines...)
	}
	want := append(append([]string{}, lines...), "tip one", "tip two")
	if !reflect.DeepEqual(shown, want) {
		t.Fatalf("body lines out of order or missing:\ngot  %v\nwant %v", shown, want)
	}
}

func TestComposeTrimsChunkOverflow(t *testing.T) {
	// Minimum page durations pushed this section's chunks to 21s against a
	// 20s slot: the trailing chunk must shrink and the cut be reported.
	chunks := BuildChunks(makeLines(20), 20, testPolicy)
	plans := []SectionPlan{
		{Label: "first", Allotted: 20, Chunks: chunks},
		fittingPlan("second", 20, "b"),
		fittingPlan("third", 14, "c"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bodies := elementsOnLayer(tl, LayerBody)
	if len(bodies) < 3 {
		t.Fatalf("expected at least 3 body elements, got %d", len(bodies))
	}
	trailing := bodies[2]
	if math.Abs(trailing.Start-18) > 1e-9 || math.Abs(trailing.Duration-2) > 1e-9 {
		t.Fatalf("trailing chunk spans %v+%v, want 18+2", trailing.Start, trailing.Duration)
	}

	if len(tl.Truncations) != 1 {
		t.Fatalf("expected 1 truncation, got %+v", tl.Truncations)
	}
	tr := tl.Truncations[0]
	if tr.Section != "first" || math.Abs(tr.TrimmedSec-1) > 1e-9 || tr.DroppedChunks != 0 {
		t.Fatalf("truncation = %+v, want 1s trimmed from first", tr)
	}

	// The squeeze never leaks past the section boundary.
	second := elementsOnLayer(tl, LayerHeading)[1]
	if math.Abs(second.Start-20) > 1e-9 {
		t.Fatalf("second heading starts at %v, want 20", second.Start)
	}
}

func TestComposeSqueezesOverrunIntoLastSection(t *testing.T) {
	// Floor clamping can allot more time than the content window holds;
	// the final section absorbs the squeeze and the video still ends on
	// time.
	plans := []SectionPlan{
		fittingPlan("first", 24, "a"),
		fittingPlan("second", 16, "b"),
		fittingPlan("third", 20, "c"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := tl.Sections[2]
	if math.Abs(last.Duration-14) > 1e-9 {
		t.Fatalf("last section duration = %v, want 14 after the squeeze", last.Duration)
	}
	if len(tl.Truncations) != 1 || tl.Truncations[0].Section != "third" {
		t.Fatalf("expected a truncation for the third section, got %+v", tl.Truncations)
	}
	if math.Abs(tl.Truncations[0].TrimmedSec-6) > 1e-9 {
		t.Fatalf("trimmed = %v, want 6", tl.Truncations[0].TrimmedSec)
	}
	for _, e := range tl.Elements {
		if e.End() > 59+1e-9 {
			t.Fatalf("element %s ends at %v, past the target", e.Layer, e.End())
		}
	}
}

func TestComposeEmptySectionKeepsHeading(t *testing.T) {
	plans := []SectionPlan{
		fittingPlan("first", 24, "a"),
		{Label: "second", Allotted: 16},
		fittingPlan("third", 14, "c"),
	}
	tl, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	headings := elementsOnLayer(tl, LayerHeading)
	if len(headings) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(headings))
	}
	if math.Abs(headings[1].Duration-16) > 1e-9 {
		t.Fatalf("empty section heading duration = %v, want 16", headings[1].Duration)
	}
	if len(tl.Truncations) != 0 {
		t.Fatalf("empty section is not a truncation: %+v", tl.Truncations)
	}
}

func TestComposeWithoutCallToAction(t *testing.T) {
	plans := []SectionPlan{fittingPlan("only", 59, "a")}
	tl, err := Compose(59, 0, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elementsOnLayer(tl, LayerCTA)) != 0 {
		t.Fatal("expected no call-to-action element")
	}
	if math.Abs(tl.ContentEnd-59) > 1e-9 {
		t.Fatalf("content end = %v, want 59", tl.ContentEnd)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	chunks := BuildChunks(makeLines(20), 24, testPolicy)
	plans := []SectionPlan{
		{Label: "first", Allotted: 24, Chunks: chunks},
		fittingPlan("second", 16, "b"),
		fittingPlan("third", 14, "c"),
	}
	first, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compose(59, 5, testLayout(), plans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different timelines")
	}
}

func TestComposeRejectsBadDurations(t *testing.T) {
	tests := []struct {
		name    string
		target  float64
		cta     float64
		wantErr string
	}{
		{name: "zero target", target: 0, cta: 0, wantErr: "not positive"},
		{name: "negative target", target: -10, cta: 0, wantErr: "not positive"},
		{name: "cta fills target", target: 59, cta: 59, wantErr: "must fit inside"},
		{name: "negative cta", target: 59, cta: -1, wantErr: "must fit inside"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compose(tc.target, tc.cta, testLayout(), nil)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}
