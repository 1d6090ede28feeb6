package voice

import (
	"math"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/growth"
	"github.com/kentarow/yadori-sub004/internal/species"
)

// Capability derivation constants.
const (
	maxDurationMsPerMaturityPoint = 150
	uniquenessWeightScale         = 50.0
)

// CapabilitiesFor derives an advertised capability snapshot from the
// entity's maturity at a growth day. Clarity is maturity: it is not a
// separately tunable value.
func CapabilitiesFor(growthDay int, s species.Species) core.VoiceCapabilities {
	maturity := growth.Maturity(growthDay, s)

	uniqueness := 0

	profile, err := species.ProfileFor(s)
	if err == nil {
		uniqueness = int(math.Round((profile.PatternWeight + profile.CryWeight) * uniquenessWeightScale))
	}

	return core.VoiceCapabilities{
		CanSpeak:       maturity > 0,
		MaxDurationMs:  maturity * maxDurationMsPerMaturityPoint,
		EmotionalRange: maturity,
		Clarity:        maturity,
		Uniqueness:     uniqueness,
	}
}
