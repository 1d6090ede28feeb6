// Package wav builds and validates the RIFF/WAVE containers exchanged with
// synthesis backends: a fixed 44-byte header followed by 16-bit little-endian
// mono PCM samples.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Container layout constants.
const (
	// HeaderSize is the fixed byte length of the canonical header.
	HeaderSize = 44

	// BytesPerSample is the width of one 16-bit PCM sample.
	BytesPerSample = 2

	NumChannels   = 1
	BitsPerSample = 16

	pcmFormatCode  = 1
	fmtChunkSize   = 16
	riffSizeOffset = 4
	fmtOffset      = 12
	dataOffset     = 36

	millisecondsPerSecond = 1000
)

// Static errors.
var (
	ErrTooShort       = errors.New("waveform shorter than header")
	ErrBadMagic       = errors.New("missing RIFF/WAVE magic")
	ErrUnsupportedFmt = errors.New("unsupported waveform format")
	ErrZeroSampleRate = errors.New("sample rate is zero")
)

// Info describes a validated waveform container.
type Info struct {
	SampleRate  int
	NumSamples  int
	DataBytes   int
	HeaderBytes int
}

// Parse validates a waveform buffer and returns its layout. Only the
// canonical container produced by the synthesis backends is accepted:
// mono 16-bit PCM with a 44-byte header. Malformed buffers are a validation
// error, never silently degraded audio.
func Parse(buf []byte) (Info, error) {
	if len(buf) < HeaderSize {
		return Info{}, fmt.Errorf("%w: %d bytes", ErrTooShort, len(buf))
	}

	if string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		return Info{}, ErrBadMagic
	}

	if string(buf[fmtOffset:fmtOffset+4]) != "fmt " {
		return Info{}, fmt.Errorf("%w: missing fmt chunk", ErrUnsupportedFmt)
	}

	formatCode := binary.LittleEndian.Uint16(buf[20:22])
	channels := binary.LittleEndian.Uint16(buf[22:24])
	bitsPerSample := binary.LittleEndian.Uint16(buf[34:36])

	if formatCode != pcmFormatCode || channels != NumChannels || bitsPerSample != BitsPerSample {
		return Info{}, fmt.Errorf(
			"%w: format=%d channels=%d bits=%d",
			ErrUnsupportedFmt, formatCode, channels, bitsPerSample,
		)
	}

	sampleRate := int(binary.LittleEndian.Uint32(buf[24:28]))
	if sampleRate == 0 {
		return Info{}, ErrZeroSampleRate
	}

	dataBytes := len(buf) - HeaderSize

	return Info{
		SampleRate:  sampleRate,
		NumSamples:  dataBytes / BytesPerSample,
		DataBytes:   dataBytes,
		HeaderBytes: HeaderSize,
	}, nil
}

// DurationMs computes the playback duration from the sample count and rate,
// independent of sample content.
func (i Info) DurationMs() int {
	return i.NumSamples * millisecondsPerSecond / i.SampleRate
}

// Encode wraps raw 16-bit mono PCM bytes in a canonical 44-byte header.
func Encode(pcm []byte, sampleRate int) []byte {
	buf := make([]byte, HeaderSize+len(pcm))

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[riffSizeOffset:], uint32(dataOffset+len(pcm)))
	copy(buf[8:12], "WAVE")

	copy(buf[fmtOffset:fmtOffset+4], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], fmtChunkSize)
	binary.LittleEndian.PutUint16(buf[20:], pcmFormatCode)
	binary.LittleEndian.PutUint16(buf[22:], NumChannels)
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))

	byteRate := sampleRate * NumChannels * BytesPerSample
	binary.LittleEndian.PutUint32(buf[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:], NumChannels*BytesPerSample)
	binary.LittleEndian.PutUint16(buf[34:], BitsPerSample)

	copy(buf[dataOffset:dataOffset+4], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(len(pcm)))
	copy(buf[HeaderSize:], pcm)

	return buf
}
