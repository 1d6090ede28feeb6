// Package voice implements the synthesis backends, the acoustic parameter
// mapping, and the capacity-driven backend selection of the voice pipeline.
package voice

import (
	"math"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/species"
)

// Parameter mapping constants.
const (
	moodNeutral = 50

	speedFloorFraction = 0.7
	speedSpanFraction  = 0.6

	volumeFloor         = 30.0
	volumeComfortWeight = 0.7

	statusScale = 100.0

	intensityPerMoodStep = 2
)

// Params are the acoustic control parameters computed for one request.
// Pitch is Hz-like, Speed words per minute, Volume in [30,100], Wobble a
// pitch-instability proxy in [0,1], EmotionalIntensity in [0,100].
type Params struct {
	Pitch              float64
	Speed              float64
	Volume             float64
	Wobble             float64
	EmotionalIntensity int
}

// MapParams maps a species voice profile and an emotional status to acoustic
// parameters. Pure arithmetic: identical inputs always yield identical
// outputs. The status is clamped before use.
func MapParams(profile species.Profile, status core.EmotionalStatus) Params {
	s := status.Clamped()

	moodOffset := float64(s.Mood-moodNeutral) / moodNeutral

	return Params{
		Pitch:              profile.BasePitch + moodOffset*profile.PitchRange,
		Speed:              profile.BaseSpeed * (speedFloorFraction + float64(s.Energy)/statusScale*speedSpanFraction),
		Volume:             volumeFloor + float64(s.Comfort)*volumeComfortWeight,
		Wobble:             float64(core.StatusScaleMax-s.Comfort) / statusScale,
		EmotionalIntensity: int(math.Abs(float64(s.Mood-moodNeutral))) * intensityPerMoodStep,
	}
}
