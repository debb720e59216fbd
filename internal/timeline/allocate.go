package timeline

import (
	"fmt"
	"math"
)

// Allocation is the result of dividing a time budget across sections.
type Allocation struct {
	Durations []float64
	// Overrun is how far the durations exceed the budget after floor
	// clamping. Zero when the weighted split fits exactly.
	Overrun float64
}

// Allocate divides budgetSec across sections proportionally to their body
// length in runes. Every section but the last receives
// max(floor, round(share*budget)); the last receives the exact remainder,
// clamped up to its floor so it is never starved. When all bodies are empty
// the budget is split evenly. A budget below the combined floors is a
// configuration error.
func Allocate(sections []Section, budgetSec float64) (Allocation, error) {
	if len(sections) == 0 {
		return Allocation{}, fmt.Errorf("allocate: no sections")
	}
	var floorSum float64
	for _, s := range sections {
		floorSum += s.Floor
	}
	if budgetSec < floorSum {
		return Allocation{}, fmt.Errorf("allocate: budget %.2fs is below the combined section floors %.2fs", budgetSec, floorSum)
	}

	weights := make([]float64, len(sections))
	var total float64
	for i, s := range sections {
		weights[i] = float64(len([]rune(s.Body)))
		total += weights[i]
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}

	durations := make([]float64, len(sections))
	var used float64
	for i := 0; i < len(sections)-1; i++ {
		d := math.Round(weights[i] / total * budgetSec)
		if d < sections[i].Floor {
			d = sections[i].Floor
		}
		durations[i] = d
		used += d
	}
	last := len(sections) - 1
	durations[last] = budgetSec - used
	if durations[last] < sections[last].Floor {
		durations[last] = sections[last].Floor
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}
	overrun := sum - budgetSec
	if overrun < 0 {
		overrun = 0
	}
	return Allocation{Durations: durations, Overrun: overrun}, nil
}
