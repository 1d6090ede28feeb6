package voice

import "errors"

// Error taxonomy of the voice pipeline. Selection failures are absorbed by
// the fallback chain; everything else surfaces to the caller as a typed
// result. No failure here may terminate the host process.
var (
	// ErrBackendUnavailable indicates the synthesis mechanism is not
	// installed or reachable. The selection controller treats it as a
	// fallback trigger; at the none tier it simply means "no voice".
	ErrBackendUnavailable = errors.New("voice backend unavailable")

	// ErrVoiceUnavailable is returned by the no-voice variant for every
	// generation attempt.
	ErrVoiceUnavailable = errors.New("voice unavailable on this host")

	// ErrPreVoiceStage indicates generation was requested before the
	// entity's maturity left zero. Expected and recoverable; retrying
	// without growth-day advancing will fail again.
	ErrPreVoiceStage = errors.New("entity has not reached the voice stage")

	// ErrMechanismTimeout indicates the external synthesis mechanism
	// exceeded its time bound.
	ErrMechanismTimeout = errors.New("synthesis mechanism timed out")

	// ErrMechanismFailure indicates the external synthesis mechanism
	// failed outright.
	ErrMechanismFailure = errors.New("synthesis mechanism failed")

	// ErrMalformedOutput indicates backend output failed waveform
	// validation. Treated identically to a mechanism failure.
	ErrMalformedOutput = errors.New("synthesis output is not a valid waveform")

	// ErrEmptyText indicates a generation request without text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrOutputTooLarge indicates backend output exceeded the configured
	// size bound.
	ErrOutputTooLarge = errors.New("synthesis output exceeds size limit")
)
