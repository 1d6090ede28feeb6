package hardware

import "fmt"

// Tier classifies which synthesis backend the host can run locally.
type Tier string

// Capacity tiers, lightest to heaviest.
const (
	TierNone      Tier = "none"
	TierEspeak    Tier = "espeak"
	TierPiper     Tier = "piper"
	TierStyleTTS2 Tier = "styletts2"
)

// Memory thresholds in GB. Boundaries are inclusive-low: a host with exactly
// 2 GB lands in the espeak tier, exactly 8 GB in the styletts2 tier.
const (
	minEspeakMemoryGB    = 2
	minPiperMemoryGB     = 4
	minStyleTTS2MemoryGB = 8
)

// Capacity is the result of estimating what the host can run. Reason is a
// human-readable justification; callers must never parse it.
type Capacity struct {
	CanRunLocal bool
	Tier        Tier
	Reason      string
}

// EstimateCapacity decides the synthesis tier purely from total memory.
// Other hardware fields are informational and never gate the decision.
func EstimateCapacity(body Body) Capacity {
	memGB := body.TotalMemoryGB

	switch {
	case memGB < minEspeakMemoryGB:
		return Capacity{
			CanRunLocal: false,
			Tier:        TierNone,
			Reason: fmt.Sprintf(
				"%d GB memory is below the %d GB minimum for local synthesis",
				memGB, minEspeakMemoryGB,
			),
		}
	case memGB < minPiperMemoryGB:
		return Capacity{
			CanRunLocal: true,
			Tier:        TierEspeak,
			Reason:      fmt.Sprintf("%d GB memory supports lightweight synthesis", memGB),
		}
	case memGB < minStyleTTS2MemoryGB:
		return Capacity{
			CanRunLocal: true,
			Tier:        TierPiper,
			Reason:      fmt.Sprintf("%d GB memory supports neural synthesis", memGB),
		}
	default:
		return Capacity{
			CanRunLocal: true,
			Tier:        TierStyleTTS2,
			Reason:      fmt.Sprintf("%d GB memory supports expressive synthesis", memGB),
		}
	}
}

// FallbackTier returns the next tier down the chain, or TierNone when there
// is nothing lighter left. Fallback never moves upward.
func FallbackTier(tier Tier) Tier {
	switch tier {
	case TierStyleTTS2:
		return TierPiper
	case TierPiper:
		return TierEspeak
	case TierEspeak, TierNone:
		return TierNone
	default:
		return TierNone
	}
}
