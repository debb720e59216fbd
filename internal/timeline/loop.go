package timeline

import (
	"fmt"
	"math"
)

// MediaPlan describes how a finite source is stretched across the video:
// concatenate LoopCount copies, then trim the result at TrimEnd seconds.
type MediaPlan struct {
	SourceSec float64 `json:"source_seconds"`
	TargetSec float64 `json:"target_seconds"`
	LoopCount int     `json:"loop_count"`
	TrimEnd   float64 `json:"trim_end"`
}

// PlanLoop computes the loop plan for a source of sourceSec seconds that
// must cover targetSec seconds. A source at least as long as the target
// still loops once and is trimmed.
func PlanLoop(sourceSec, targetSec float64) (MediaPlan, error) {
	if sourceSec <= 0 {
		return MediaPlan{}, fmt.Errorf("loop: source duration %.3fs is not positive", sourceSec)
	}
	if targetSec <= 0 {
		return MediaPlan{}, fmt.Errorf("loop: target duration %.3fs is not positive", targetSec)
	}
	count := int(math.Ceil(targetSec / sourceSec))
	if count < 1 {
		count = 1
	}
	return MediaPlan{
		SourceSec: sourceSec,
		TargetSec: targetSec,
		LoopCount: count,
		TrimEnd:   targetSec,
	}, nil
}
