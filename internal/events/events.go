// Package events defines the wire schema of the voice pipeline's NATS
// messages.
package events

import (
	"time"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/species"
)

// Default subjects and storage names.
const (
	SpeechRequestedSubject   = "voice.speech.requested"
	SpeechSynthesizedSubject = "voice.speech.synthesized"
	AudioBucket              = "VOICE_AUDIO"
)

// EventHeader carries the common correlation fields of every event.
type EventHeader struct {
	Timestamp time.Time `json:"timestamp"`
	EventID   string    `json:"eventId"`
	EntityID  string    `json:"entityId"`
}

// SpeechRequestedEvent asks the voice service to synthesize one utterance.
// Emotional scalars and the growth day are supplied by the mood and growth
// subsystems; the voice service treats them as read-only input.
type SpeechRequestedEvent struct {
	Header        EventHeader          `json:"header"`
	Text          string               `json:"text"`
	Status        core.EmotionalStatus `json:"status"`
	Species       species.Species      `json:"species"`
	GrowthDay     int                  `json:"growthDay"`
	LanguageLevel int                  `json:"languageLevel"`
}

// SpeechSynthesizedEvent replies with the stored audio. A failed synthesis
// carries an empty AudioKey and a human-readable Error; the requester decides
// whether to retry, wait for more growth, or present a no-voice state.
type SpeechSynthesizedEvent struct {
	Header             EventHeader `json:"header"`
	AudioKey           string      `json:"audioKey"`
	Format             string      `json:"format"`
	DurationMs         int         `json:"durationMs"`
	Pitch              float64     `json:"pitch"`
	Speed              float64     `json:"speed"`
	EmotionalIntensity int         `json:"emotionalIntensity"`
	Error              string      `json:"error,omitempty"`
}
