// Package voice_test tests the acoustic parameter mapping and capability
// snapshots.
package voice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/species"
	"github.com/kentarow/yadori-sub004/internal/voice"
)

func testProfile(t *testing.T) species.Profile {
	t.Helper()

	profile, err := species.ProfileFor(species.Geometric)
	require.NoError(t, err)

	return profile
}

func TestMapParams_PitchSymmetricAboutBase(t *testing.T) {
	t.Parallel()

	profile := testProfile(t)

	neutral := voice.MapParams(profile, core.EmotionalStatus{Mood: 50, Energy: 50, Comfort: 50})
	assert.InDelta(t, profile.BasePitch, neutral.Pitch, 1e-9)

	low := voice.MapParams(profile, core.EmotionalStatus{Mood: 0, Energy: 50, Comfort: 50})
	assert.InDelta(t, profile.BasePitch-profile.PitchRange, low.Pitch, 1e-9)

	high := voice.MapParams(profile, core.EmotionalStatus{Mood: 100, Energy: 50, Comfort: 50})
	assert.InDelta(t, profile.BasePitch+profile.PitchRange, high.Pitch, 1e-9)
}

func TestMapParams_SpeedRange(t *testing.T) {
	t.Parallel()

	profile := testProfile(t)

	drained := voice.MapParams(profile, core.EmotionalStatus{Mood: 50, Energy: 0, Comfort: 50})
	assert.InDelta(t, profile.BaseSpeed*0.7, drained.Speed, 1e-9)

	charged := voice.MapParams(profile, core.EmotionalStatus{Mood: 50, Energy: 100, Comfort: 50})
	assert.InDelta(t, profile.BaseSpeed*1.3, charged.Speed, 1e-9)
}

func TestMapParams_VolumeAndWobble(t *testing.T) {
	t.Parallel()

	profile := testProfile(t)

	uneasy := voice.MapParams(profile, core.EmotionalStatus{Mood: 50, Energy: 50, Comfort: 0})
	assert.InDelta(t, 30.0, uneasy.Volume, 1e-9)
	assert.InDelta(t, 1.0, uneasy.Wobble, 1e-9)

	settled := voice.MapParams(profile, core.EmotionalStatus{Mood: 50, Energy: 50, Comfort: 100})
	assert.InDelta(t, 100.0, settled.Volume, 1e-9)
	assert.InDelta(t, 0.0, settled.Wobble, 1e-9)
}

func TestMapParams_EmotionalIntensity(t *testing.T) {
	t.Parallel()

	profile := testProfile(t)

	neutral := voice.MapParams(profile, core.EmotionalStatus{Mood: 50, Energy: 50, Comfort: 50})
	assert.Equal(t, 0, neutral.EmotionalIntensity)

	despairing := voice.MapParams(profile, core.EmotionalStatus{Mood: 0, Energy: 50, Comfort: 50})
	assert.Equal(t, 100, despairing.EmotionalIntensity)

	elated := voice.MapParams(profile, core.EmotionalStatus{Mood: 100, Energy: 50, Comfort: 50})
	assert.Equal(t, 100, elated.EmotionalIntensity)
}

func TestMapParams_ClampsOutOfRangeStatus(t *testing.T) {
	t.Parallel()

	profile := testProfile(t)

	wild := voice.MapParams(profile, core.EmotionalStatus{Mood: 900, Energy: -50, Comfort: 300})
	tamed := voice.MapParams(profile, core.EmotionalStatus{Mood: 100, Energy: 0, Comfort: 100})

	assert.Equal(t, tamed, wild)
}

func TestMapParams_Deterministic(t *testing.T) {
	t.Parallel()

	profile := testProfile(t)
	status := core.EmotionalStatus{Mood: 73, Energy: 21, Comfort: 64}

	assert.Equal(t, voice.MapParams(profile, status), voice.MapParams(profile, status))
}

func TestCapabilitiesFor_PreVoiceStage(t *testing.T) {
	t.Parallel()

	for _, s := range species.All() {
		snapshot := voice.CapabilitiesFor(10, s)

		assert.False(t, snapshot.CanSpeak, "species %s", s)
		assert.Equal(t, 0, snapshot.Clarity)
		assert.Equal(t, 0, snapshot.MaxDurationMs)
	}
}

func TestCapabilitiesFor_MatureEntity(t *testing.T) {
	t.Parallel()

	snapshot := voice.CapabilitiesFor(200, species.Geometric)

	assert.True(t, snapshot.CanSpeak)
	assert.Equal(t, 100, snapshot.Clarity)
	assert.Equal(t, 100, snapshot.EmotionalRange)
	assert.Equal(t, 100*150, snapshot.MaxDurationMs)
	assert.Equal(t, 50, snapshot.Uniqueness) // geometric weights 0.9 + 0.1
}
