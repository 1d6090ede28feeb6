// Package worker provides a NATS worker that serves speak requests.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/events"
	"github.com/kentarow/yadori-sub004/internal/species"
)

const handleMessageTimeout = 30 * time.Second

var (
	// ErrTextEmpty indicates a speak request without text.
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrUnknownSpecies indicates a speak request with a species outside
	// the closed set.
	ErrUnknownSpecies = errors.New("unsupported species")
	// ErrNegativeGrowthDay indicates a speak request with a growth day
	// below zero.
	ErrNegativeGrowthDay = errors.New("growth day must be non-negative")
)

// NatsWorker listens for speak requests on a NATS subject, drives the active
// voice backend, and stores the rendered audio.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	store          core.ObjectStore
	backend        core.VoiceBackend
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	store core.ObjectStore,
	backend core.VoiceBackend,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		store:          store,
		backend:        backend,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate speak request: %v", err)

		return
	}

	reply := w.processSpeakRequest(ctx, event)

	publishErr := w.publishReplyEvent(msg, reply)
	if publishErr != nil {
		w.log.Error("Failed to publish reply for event %s: %v", event.Header.EventID, publishErr)
	}
}

// processSpeakRequest drives the backend and uploads the audio. Failures are
// carried in the reply event rather than dropped: the requester decides
// whether to retry, wait for more growth, or present a no-voice state.
func (w *NatsWorker) processSpeakRequest(
	ctx context.Context,
	event *events.SpeechRequestedEvent,
) *events.SpeechSynthesizedEvent {
	reply := &events.SpeechSynthesizedEvent{
		Header:             event.Header,
		AudioKey:           "",
		Format:             "",
		DurationMs:         0,
		Pitch:              0,
		Speed:              0,
		EmotionalIntensity: 0,
		Error:              "",
	}

	request := core.VoiceRequest{
		Text:          event.Text,
		Status:        event.Status,
		Species:       event.Species,
		GrowthDay:     event.GrowthDay,
		LanguageLevel: clampLanguageLevel(event.LanguageLevel),
	}

	response, err := w.backend.Generate(ctx, request)
	if err != nil {
		w.log.Error("Failed to synthesize speech for event %s: %v", event.Header.EventID, err)

		reply.Error = err.Error()

		return reply
	}

	audioKey := uuid.NewString() + ".wav"

	uploadErr := w.store.Upload(ctx, audioKey, response.Audio)
	if uploadErr != nil {
		w.log.Error("Failed to upload audio for event %s: %v", event.Header.EventID, uploadErr)

		reply.Error = uploadErr.Error()

		return reply
	}

	reply.AudioKey = audioKey
	reply.Format = response.Format
	reply.DurationMs = response.DurationMs
	reply.Pitch = response.Metadata.Pitch
	reply.Speed = response.Metadata.Speed
	reply.EmotionalIntensity = response.Metadata.EmotionalIntensity

	return reply
}

// publishReplyEvent marshals and responds with the SpeechSynthesizedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, reply *events.SpeechSynthesizedEvent) error {
	replyData, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.SpeechRequestedEvent, error) {
	var event events.SpeechRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal speak request: %w", err)
	}

	validationErr := validateSpeakRequest(&event)
	if validationErr != nil {
		return nil, validationErr
	}

	return &event, nil
}

// clampLanguageLevel forces the coarse language level into its valid range.
// Like the emotional scalars, out-of-range values are corrected, not
// rejected.
func clampLanguageLevel(level int) int {
	if level < 0 {
		return 0
	}

	if level > core.LanguageLevelMax {
		return core.LanguageLevelMax
	}

	return level
}

// validateSpeakRequest rejects requests the backend could never serve.
// Emotional scalars are not rejected: they are clamped downstream.
func validateSpeakRequest(event *events.SpeechRequestedEvent) error {
	if event.Text == "" {
		return ErrTextEmpty
	}

	if !species.Valid(event.Species) {
		return fmt.Errorf("%w: '%s'", ErrUnknownSpecies, event.Species)
	}

	if event.GrowthDay < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeGrowthDay, event.GrowthDay)
	}

	return nil
}
