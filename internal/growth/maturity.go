// Package growth derives the entity's voice maturity from its growth day.
package growth

import (
	"math"

	"github.com/kentarow/yadori-sub004/internal/species"
)

// PreVoiceMaxDay is the last growth day of the pre-voice stage. Maturity is
// exactly 0 through this day for every species.
const PreVoiceMaxDay = 14

// Base curve segment boundaries (growth days) and the maturity value each
// segment reaches at its right edge.
const (
	infancyEndDay   = 30
	childhoodEndDay = 60
	youthEndDay     = 120
	fullGrowthDay   = 200

	infancyEndValue   = 20.0
	childhoodEndValue = 50.0
	youthEndValue     = 80.0
	maxMaturity       = 100.0
)

// Species modifiers applied multiplicatively to the base curve. All factors
// preserve monotonicity in the growth day.
var speciesFactors = map[species.Species]float64{
	species.Vibration: 1.10,
	species.Chemical:  1.05,
	species.Geometric: 1.00,
	species.Chromatic: 0.95,
	species.Thermal:   1.02,
	species.Temporal:  0.98,
}

// Maturity maps a growth day and species to a voice maturity score in
// [0,100]. The function is pure: identical inputs always yield identical
// outputs, and for a fixed species the result is non-decreasing in day.
// Days at or below PreVoiceMaxDay always yield 0.
func Maturity(day int, s species.Species) int {
	if day <= PreVoiceMaxDay {
		return 0
	}

	base := baseCurve(day)

	factor, ok := speciesFactors[s]
	if !ok {
		factor = 1.0
	}

	scaled := base * factor
	if scaled > maxMaturity {
		scaled = maxMaturity
	}

	if scaled < 0 {
		scaled = 0
	}

	return int(math.Round(scaled))
}

// CanSpeak reports whether the entity has left the pre-voice stage.
func CanSpeak(day int, s species.Species) bool {
	return Maturity(day, s) > 0
}

// baseCurve is the species-independent piecewise-linear maturity curve.
// Each segment's right edge matches the next segment's left edge, so the
// curve is continuous and non-decreasing.
func baseCurve(day int) float64 {
	d := float64(day)

	switch {
	case day <= PreVoiceMaxDay:
		return 0
	case day <= infancyEndDay:
		return lerp(d, PreVoiceMaxDay+1, infancyEndDay, 0, infancyEndValue)
	case day <= childhoodEndDay:
		return lerp(d, infancyEndDay, childhoodEndDay, infancyEndValue, childhoodEndValue)
	case day <= youthEndDay:
		return lerp(d, childhoodEndDay, youthEndDay, childhoodEndValue, youthEndValue)
	case day <= fullGrowthDay:
		return lerp(d, youthEndDay, fullGrowthDay, youthEndValue, maxMaturity)
	default:
		return maxMaturity
	}
}

// lerp linearly interpolates between (x0,y0) and (x1,y1) at x.
func lerp(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}
