// Package worker_test tests the NATS worker for the voice service.
package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/events"
	"github.com/kentarow/yadori-sub004/internal/species"
	"github.com/kentarow/yadori-sub004/internal/worker"
)

var (
	errMockUpload   = errors.New("mock upload error")
	errMockGenerate = errors.New("mock generate error")
)

// mockObjectStore is a mock implementation of the ObjectStore interface.
type mockObjectStore struct {
	uploadShouldFail bool
	uploadedKey      string
	uploadedData     []byte
}

func (m *mockObjectStore) Download(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("not used by the worker")
}

func (m *mockObjectStore) Upload(_ context.Context, key string, data []byte) error {
	if m.uploadShouldFail {
		return errMockUpload
	}

	m.uploadedKey = key
	m.uploadedData = data

	return nil
}

// mockBackend is a mock implementation of the VoiceBackend interface.
type mockBackend struct {
	generateShouldFail bool
	lastRequest        core.VoiceRequest
}

func (m *mockBackend) Initialize(_ context.Context) error {
	return nil
}

func (m *mockBackend) CheckHealth(_ context.Context) core.HealthResult {
	return core.HealthResult{Available: true, Detail: ""}
}

func (m *mockBackend) GetCapabilities(_ int) core.VoiceCapabilities {
	return core.VoiceCapabilities{
		CanSpeak:       true,
		MaxDurationMs:  15000,
		EmotionalRange: 100,
		Clarity:        100,
		Uniqueness:     50,
	}
}

func (m *mockBackend) Generate(_ context.Context, req core.VoiceRequest) (*core.VoiceResponse, error) {
	if m.generateShouldFail {
		return nil, errMockGenerate
	}

	m.lastRequest = req

	return &core.VoiceResponse{
		Audio:      []byte("sample audio"),
		Format:     "wav",
		DurationMs: 1200,
		Metadata: core.ResponseMetadata{
			Pitch:              200,
			Speed:              150,
			EmotionalIntensity: 0,
		},
	}, nil
}

func (m *mockBackend) Shutdown() error {
	return nil
}

func (m *mockBackend) Name() string {
	return "mock"
}

func createTestNatsClient(t *testing.T) *nats.Conn {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	t.Cleanup(func() {
		server.Shutdown()
		natsConnection.Close()
	})

	return natsConnection
}

func setupTest(t *testing.T) (*mockObjectStore, *mockBackend, *nats.Conn, context.CancelFunc, chan error) {
	t.Helper()

	mockStore := &mockObjectStore{
		uploadShouldFail: false,
		uploadedKey:      "",
		uploadedData:     nil,
	}
	backend := &mockBackend{
		generateShouldFail: false,
		lastRequest:        core.VoiceRequest{},
	}

	natsConnection := createTestNatsClient(t)

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	workerInstance, err := worker.NewNatsWorker(
		natsConnection, "test_subject", mockStore, backend, testLogger,
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- workerInstance.Run(ctx)
	}()

	return mockStore, backend, natsConnection, cancel, errChan
}

func testEvent() *events.SpeechRequestedEvent {
	return &events.SpeechRequestedEvent{
		Header: events.EventHeader{
			Timestamp: time.Now(),
			EventID:   uuid.NewString(),
			EntityID:  uuid.NewString(),
		},
		Text:          "the light feels warm today",
		Status:        core.EmotionalStatus{Mood: 70, Energy: 40, Comfort: 85},
		Species:       species.Vibration,
		GrowthDay:     90,
		LanguageLevel: 2,
	}
}

func TestSpeakRequest_Success(t *testing.T) {
	t.Parallel()

	mockStore, backend, natsConnection, cancel, errChan := setupTest(t)
	defer cancel()

	event := testEvent()
	eventData, err := json.Marshal(event)
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request("test_subject", eventData, 5*time.Second)
	require.NoError(t, err, "Request should succeed and receive a reply")

	var reply events.SpeechSynthesizedEvent

	err = json.Unmarshal(replyMsg.Data, &reply)
	require.NoError(t, err)

	assert.Empty(t, reply.Error)
	assert.Equal(t, event.Header.EventID, reply.Header.EventID)
	assert.Equal(t, mockStore.uploadedKey, reply.AudioKey)
	assert.Equal(t, "wav", reply.Format)
	assert.Equal(t, 1200, reply.DurationMs)
	assert.Equal(t, []byte("sample audio"), mockStore.uploadedData)

	assert.Equal(t, event.Text, backend.lastRequest.Text)
	assert.Equal(t, event.Species, backend.lastRequest.Species)
	assert.Equal(t, event.GrowthDay, backend.lastRequest.GrowthDay)
	assert.Equal(t, event.Status, backend.lastRequest.Status)

	cancel()

	shutdownErr := <-errChan
	assert.NoError(t, shutdownErr, "worker.Run should not error on graceful shutdown")
}

func TestSpeakRequest_GenerateFailureCarriedInReply(t *testing.T) {
	t.Parallel()

	mockStore, backend, natsConnection, cancel, _ := setupTest(t)
	defer cancel()

	backend.generateShouldFail = true

	eventData, err := json.Marshal(testEvent())
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request("test_subject", eventData, 5*time.Second)
	require.NoError(t, err)

	var reply events.SpeechSynthesizedEvent

	err = json.Unmarshal(replyMsg.Data, &reply)
	require.NoError(t, err)

	assert.NotEmpty(t, reply.Error)
	assert.Empty(t, reply.AudioKey)
	assert.Empty(t, mockStore.uploadedKey, "nothing should be uploaded on failure")
}

func TestSpeakRequest_UploadFailureCarriedInReply(t *testing.T) {
	t.Parallel()

	mockStore, _, natsConnection, cancel, _ := setupTest(t)
	defer cancel()

	mockStore.uploadShouldFail = true

	eventData, err := json.Marshal(testEvent())
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request("test_subject", eventData, 5*time.Second)
	require.NoError(t, err)

	var reply events.SpeechSynthesizedEvent

	err = json.Unmarshal(replyMsg.Data, &reply)
	require.NoError(t, err)

	assert.NotEmpty(t, reply.Error)
	assert.Empty(t, reply.AudioKey)
}

func TestSpeakRequest_InvalidEventsAreDropped(t *testing.T) {
	t.Parallel()

	_, backend, natsConnection, cancel, _ := setupTest(t)
	defer cancel()

	invalid := testEvent()
	invalid.Species = "telepathic"

	eventData, err := json.Marshal(invalid)
	require.NoError(t, err)

	_, err = natsConnection.Request("test_subject", eventData, 500*time.Millisecond)
	require.Error(t, err, "invalid requests receive no reply")

	assert.Empty(t, backend.lastRequest.Text)
}
