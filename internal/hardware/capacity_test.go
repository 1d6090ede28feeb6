// Package hardware_test tests capacity estimation and the fallback chain.
package hardware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kentarow/yadori-sub004/internal/hardware"
)

func TestEstimateCapacity_StepFunction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		memoryGB    int
		canRunLocal bool
		tier        hardware.Tier
	}{
		{name: "zero memory", memoryGB: 0, canRunLocal: false, tier: hardware.TierNone},
		{name: "one gigabyte", memoryGB: 1, canRunLocal: false, tier: hardware.TierNone},
		{name: "espeak lower boundary", memoryGB: 2, canRunLocal: true, tier: hardware.TierEspeak},
		{name: "espeak upper", memoryGB: 3, canRunLocal: true, tier: hardware.TierEspeak},
		{name: "piper lower boundary", memoryGB: 4, canRunLocal: true, tier: hardware.TierPiper},
		{name: "piper upper", memoryGB: 7, canRunLocal: true, tier: hardware.TierPiper},
		{name: "styletts2 lower boundary", memoryGB: 8, canRunLocal: true, tier: hardware.TierStyleTTS2},
		{name: "styletts2 large", memoryGB: 16, canRunLocal: true, tier: hardware.TierStyleTTS2},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			capacity := hardware.EstimateCapacity(hardware.Body{
				Platform:      "linux",
				Arch:          "arm64",
				TotalMemoryGB: testCase.memoryGB,
				CPUModel:      "test",
				StorageGB:     32,
			})

			assert.Equal(t, testCase.canRunLocal, capacity.CanRunLocal)
			assert.Equal(t, testCase.tier, capacity.Tier)
			assert.NotEmpty(t, capacity.Reason)
		})
	}
}

func TestEstimateCapacity_OnlyMemoryGates(t *testing.T) {
	t.Parallel()

	sparse := hardware.EstimateCapacity(hardware.Body{
		Platform:      "",
		Arch:          "",
		TotalMemoryGB: 4,
		CPUModel:      "",
		StorageGB:     0,
	})

	assert.True(t, sparse.CanRunLocal)
	assert.Equal(t, hardware.TierPiper, sparse.Tier)
}

func TestFallbackTier_NeverUpward(t *testing.T) {
	t.Parallel()

	assert.Equal(t, hardware.TierPiper, hardware.FallbackTier(hardware.TierStyleTTS2))
	assert.Equal(t, hardware.TierEspeak, hardware.FallbackTier(hardware.TierPiper))
	assert.Equal(t, hardware.TierNone, hardware.FallbackTier(hardware.TierEspeak))
	assert.Equal(t, hardware.TierNone, hardware.FallbackTier(hardware.TierNone))
}
