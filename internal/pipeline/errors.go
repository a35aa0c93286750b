package pipeline

import "errors"

// Errors surfaced to callers. Stage failures are never among them; those
// are absorbed into fallback slots. Messages are fixed and never embed
// document content or raw provider errors.
var (
	// ErrEmptyDocument rejects an empty input before any stage runs.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrDocumentTooLarge rejects oversized inputs at the boundary.
	ErrDocumentTooLarge = errors.New("document exceeds the size limit")

	// ErrStateCorrupted is a fatal orchestrator error: the write-once
	// slot invariant was violated.
	ErrStateCorrupted = errors.New("audit state corrupted")

	// ErrCancelled is returned when the caller abandons the run.
	ErrCancelled = errors.New("analysis cancelled")
)

// Fallback reasons written into StageMark.Reason. Fixed vocabulary only.
const (
	ReasonTimeout         = "stage timed out"
	ReasonProviderFailure = "analysis provider unavailable"
	ReasonMalformedOutput = "analysis output unusable"
)
