// Package degrade applies maturity-driven degradation to synthesized
// waveforms. The corruption is an intentional expressive trait of an immature
// voice, not a defect: low maturity reduces amplitude and punches silence
// gaps into the signal.
package degrade

import (
	"math"

	"github.com/kentarow/yadori-sub004/internal/voice/wav"
)

// MatureThreshold is the maturity score at and above which audio passes
// through untouched.
const MatureThreshold = 80

// Degradation curve constants.
const (
	minVolumeScale   = 0.2
	volumeScaleSpan  = 0.8
	maxGapFraction   = 0.15
	indexHashPrime   = 7919
	indexHashModulus = 10000
)

// Apply degrades a waveform buffer according to a maturity score in [0,100].
// The 44-byte header is left untouched and the buffer length is preserved
// exactly; only sample magnitudes change. The transform is deterministic:
// gap placement derives from each sample's index alone, so repeated runs on
// identical input are bit-identical.
//
// Maturity at or above MatureThreshold returns the input unchanged.
func Apply(buf []byte, maturity int) []byte {
	if maturity >= MatureThreshold {
		return buf
	}

	if maturity < 0 {
		maturity = 0
	}

	if len(buf) <= wav.HeaderSize {
		return buf
	}

	m := float64(maturity)
	volumeScale := minVolumeScale + m/MatureThreshold*volumeScaleSpan
	gapProbability := (MatureThreshold - m) / MatureThreshold * maxGapFraction

	out := make([]byte, len(buf))
	copy(out, buf[:wav.HeaderSize])

	sampleCount := (len(buf) - wav.HeaderSize) / wav.BytesPerSample

	for sampleIndex := range sampleCount {
		offset := wav.HeaderSize + sampleIndex*wav.BytesPerSample

		if indexHash(sampleIndex) < gapProbability {
			out[offset] = 0
			out[offset+1] = 0

			continue
		}

		sample := int16(uint16(buf[offset]) | uint16(buf[offset+1])<<8)
		scaled := clampSample(math.Round(float64(sample) * volumeScale))

		out[offset] = byte(uint16(scaled))
		out[offset+1] = byte(uint16(scaled) >> 8)
	}

	// A trailing odd byte is not a full sample; carry it through as-is.
	if tail := wav.HeaderSize + sampleCount*wav.BytesPerSample; tail < len(buf) {
		copy(out[tail:], buf[tail:])
	}

	return out
}

// indexHash maps a sample index to a deterministic pseudo-random value in
// [0,1).
func indexHash(sampleIndex int) float64 {
	return float64(sampleIndex*indexHashPrime%indexHashModulus) / indexHashModulus
}

func clampSample(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}

	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}
