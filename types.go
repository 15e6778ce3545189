package matchx

import "github.com/cockroachdb/errors"

// ErrorCode represents specific error codes for match result operations.
type ErrorCode int

const (
	// ErrCodeMissingMatches is returned when a scored document has no match data.
	ErrCodeMissingMatches ErrorCode = iota + 2000

	// ErrCodeInvalidScore is returned when a score is negative or not a number.
	ErrCodeInvalidScore

	// ErrCodeDocumentMismatch is returned when merging results for different documents.
	ErrCodeDocumentMismatch

	// ErrCodeQueryMismatch is returned when merging results for different queries.
	ErrCodeQueryMismatch

	// ErrCodeNoResults is returned when there is nothing to merge.
	ErrCodeNoResults

	// ErrCodeInvalidTree is returned when a match tree cannot be decoded.
	ErrCodeInvalidTree

	// ErrCodeCanceled is returned when an evaluation pass is canceled.
	ErrCodeCanceled
)

// String returns the human-readable string representation of the error code.
// This implements the fmt.Stringer interface.
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeMissingMatches:
		return "missing matches"
	case ErrCodeInvalidScore:
		return "invalid score"
	case ErrCodeDocumentMismatch:
		return "document mismatch"
	case ErrCodeQueryMismatch:
		return "query mismatch"
	case ErrCodeNoResults:
		return "no results"
	case ErrCodeInvalidTree:
		return "invalid match tree"
	case ErrCodeCanceled:
		return "operation canceled"
	default:
		return "unknown error"
	}
}

// newErrorWithCode creates a new error with a code and message.
func newErrorWithCode(code ErrorCode, msg string) error {
	err := errors.New(msg)
	return errors.WithSecondaryError(err, errors.Newf("code: %d", int(code)))
}

// Errors returned by the core. Contract violations (everything except
// ErrInvalidTree and ErrCanceled) are additionally marked as assertion
// failures, so errors.HasAssertionFailure reports them as programming errors.
var (
	// ErrMissingMatches is returned when the engine scored a document without match data.
	ErrMissingMatches = newErrorWithCode(ErrCodeMissingMatches, "matchx: scored document has no match data")

	// ErrInvalidScore is returned when a score is negative, infinite or NaN.
	ErrInvalidScore = newErrorWithCode(ErrCodeInvalidScore, "matchx: invalid score")

	// ErrDocumentMismatch is returned when merging results that belong to different documents.
	ErrDocumentMismatch = newErrorWithCode(ErrCodeDocumentMismatch, "matchx: document mismatch")

	// ErrQueryMismatch is returned when merging results that belong to different queries.
	ErrQueryMismatch = newErrorWithCode(ErrCodeQueryMismatch, "matchx: query mismatch")

	// ErrNoResults is returned when a merge is given no results.
	ErrNoResults = newErrorWithCode(ErrCodeNoResults, "matchx: no results to merge")

	// ErrInvalidTree is returned when a match tree cannot be decoded.
	ErrInvalidTree = newErrorWithCode(ErrCodeInvalidTree, "matchx: invalid match tree")

	// ErrCanceled is returned when an evaluation pass is canceled.
	ErrCanceled = newErrorWithCode(ErrCodeCanceled, "matchx: operation canceled")
)

// contractViolation wraps a sentinel with context and marks it as an
// assertion failure.
func contractViolation(sentinel error, format string, args ...interface{}) error {
	return errors.WithAssertionFailure(errors.Wrapf(sentinel, format, args...))
}
