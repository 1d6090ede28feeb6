package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// runMechanism invokes an external synthesis process and captures its stdout,
// bounded by maxBytes. The process inherits the context's deadline and is
// terminated when the caller abandons the call. Timeouts and process failures
// surface as typed errors; the caller's process is never at risk.
func runMechanism(
	ctx context.Context,
	maxBytes int64,
	binary string,
	args []string,
	stdin io.Reader,
) ([]byte, error) {
	// #nosec G204 -- binary and args come from validated configuration
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	startErr := cmd.Start()
	if startErr != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrBackendUnavailable, binary, startErr)
	}

	// Read one byte past the bound so overruns are detectable without
	// buffering an unbounded stream from a misbehaving backend.
	data, readErr := io.ReadAll(io.LimitReader(stdout, maxBytes+1))
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s", ErrMechanismTimeout, binary)
	}

	if readErr != nil {
		return nil, fmt.Errorf("%w: reading %s output: %s", ErrMechanismFailure, binary, readErr)
	}

	if waitErr != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = waitErr.Error()
		}

		return nil, fmt.Errorf("%w: %s: %s", ErrMechanismFailure, binary, detail)
	}

	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s produced more than %d bytes", ErrOutputTooLarge, binary, maxBytes)
	}

	return data, nil
}

// probeMechanism runs a fast version probe against an external binary.
func probeMechanism(ctx context.Context, binary string, args ...string) error {
	// #nosec G204 -- binary comes from validated configuration
	cmd := exec.CommandContext(ctx, binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s version probe", ErrMechanismTimeout, binary)
		}

		return fmt.Errorf("%w: %s: %s", ErrBackendUnavailable, binary, strings.TrimSpace(string(output)))
	}

	return nil
}

// normalizeText collapses whitespace runs and strips control characters so
// backend command lines stay single-line and predictable.
func normalizeText(text string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r < ' '
	})

	return strings.Join(fields, " ")
}
