package services

import "errors"

var (
	// ErrValidation marks bad caller input. Never retried, maps to 400.
	ErrValidation = errors.New("invalid chat request")

	// ErrUpstream marks a transient failure of a single upstream call
	// (timeout, non-2xx, malformed body). Subject to the executor's retry
	// policy; never surfaced to callers directly.
	ErrUpstream = errors.New("upstream completion failed")

	// ErrUnavailable is returned once the retry budget is exhausted or the
	// queued job was rejected. Maps to 500 with a generic message; the
	// underlying detail is logged, not echoed.
	ErrUnavailable = errors.New("chat service unavailable")
)
