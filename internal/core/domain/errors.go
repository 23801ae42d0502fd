package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileKind = errors.New("unsupported file kind")
	ErrNoExtractableText   = errors.New("no extractable text")
	ErrAnalysisFailed      = errors.New("analysis failed")
	ErrExtractionTimeout   = errors.New("extraction timeout")
	ErrModelTimeout        = errors.New("model timeout")
	ErrStorage             = errors.New("storage failure")
	ErrRecordNotFound      = errors.New("record not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// AnalysisError keeps the raw model output for diagnostics when no parsable
// JSON object could be recovered from it.
type AnalysisError struct {
	RawOutput string
	Err       error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return ErrAnalysisFailed
}

// FailureReason maps a pipeline error to the stage-specific reason stored on
// the retained upload record.
func FailureReason(err error) string {
	switch {
	case IsKind(err, ErrUnsupportedFileKind):
		return "UnsupportedFileKind"
	case IsKind(err, ErrNoExtractableText):
		return "NoExtractableText"
	case IsKind(err, ErrAnalysisFailed):
		return "AnalysisFailed"
	case IsKind(err, ErrExtractionTimeout):
		return "ExtractionTimeout"
	case IsKind(err, ErrModelTimeout):
		return "ModelTimeout"
	case IsKind(err, ErrStorage):
		return "StorageError"
	default:
		return "InternalError"
	}
}
