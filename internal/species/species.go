// Package species defines the closed set of perception modes and the static
// voice profile attached to each one.
package species

import (
	"errors"
	"fmt"
)

// Species identifies one of the six fixed perception modes.
type Species string

// The closed set of perception modes. No other values are valid.
const (
	Vibration Species = "vibration"
	Chemical  Species = "chemical"
	Geometric Species = "geometric"
	Chromatic Species = "chromatic"
	Thermal   Species = "thermal"
	Temporal  Species = "temporal"
)

// ErrUnknownSpecies indicates a species tag outside the closed set.
var ErrUnknownSpecies = errors.New("unknown species")

// Profile holds the static voice configuration for one species.
// Profiles are configuration data: one per species, never mutated.
type Profile struct {
	// BasePitch is the neutral-mood pitch in Hz.
	BasePitch float64
	// PitchRange is the maximum deviation from BasePitch in Hz,
	// reached at either mood extreme.
	PitchRange float64
	// BaseSpeed is the neutral speaking rate in words per minute.
	BaseSpeed float64
	// Timbre selects the backend voice variant family.
	Timbre string
	// PatternWeight and CryWeight are independent stylistic sliders
	// in [0,1]; they are not required to sum to 1.
	PatternWeight float64
	CryWeight     float64
}

var profiles = map[Species]Profile{
	Vibration: {
		BasePitch:     220,
		PitchRange:    80,
		BaseSpeed:     160,
		Timbre:        "hum",
		PatternWeight: 0.8,
		CryWeight:     0.3,
	},
	Chemical: {
		BasePitch:     180,
		PitchRange:    50,
		BaseSpeed:     130,
		Timbre:        "murmur",
		PatternWeight: 0.4,
		CryWeight:     0.6,
	},
	Geometric: {
		BasePitch:     200,
		PitchRange:    40,
		BaseSpeed:     150,
		Timbre:        "click",
		PatternWeight: 0.9,
		CryWeight:     0.1,
	},
	Chromatic: {
		BasePitch:     260,
		PitchRange:    100,
		BaseSpeed:     170,
		Timbre:        "chime",
		PatternWeight: 0.5,
		CryWeight:     0.5,
	},
	Thermal: {
		BasePitch:     150,
		PitchRange:    60,
		BaseSpeed:     120,
		Timbre:        "breath",
		PatternWeight: 0.3,
		CryWeight:     0.7,
	},
	Temporal: {
		BasePitch:     190,
		PitchRange:    70,
		BaseSpeed:     140,
		Timbre:        "pulse",
		PatternWeight: 0.7,
		CryWeight:     0.4,
	},
}

// All returns the complete set of species tags.
func All() []Species {
	return []Species{Vibration, Chemical, Geometric, Chromatic, Thermal, Temporal}
}

// Valid reports whether the tag is a member of the closed set.
func Valid(s Species) bool {
	_, ok := profiles[s]

	return ok
}

// ProfileFor returns the static voice profile for a species.
func ProfileFor(s Species) (Profile, error) {
	profile, ok := profiles[s]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, s)
	}

	return profile, nil
}
