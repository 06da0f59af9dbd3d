package contract

import "errors"

var (
	// ErrClassification marks a primary classifier failure. It is always
	// recovered by the deterministic fallback and never escapes a run.
	ErrClassification = errors.New("classification failed")

	// ErrToolNotFound is the typed miss for get/update/history on an unknown
	// customer. Specialists recover locally: absent field, log entry, continue.
	ErrToolNotFound = errors.New("tool target not found")

	// ErrToolValidation marks rejected tool input. It surfaces to the
	// orchestrator and moves the run to FAILED.
	ErrToolValidation = errors.New("tool validation failed")

	// ErrOrderingViolation is an internal invariant breach, e.g. SupportWorker
	// invoked before a required DataWorker. Prevented by construction; fatal
	// when detected.
	ErrOrderingViolation = errors.New("specialist ordering violated")

	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
)
