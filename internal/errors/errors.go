package errors

import (
	"errors"
	"fmt"
)

// Code classifies a pipeline error.
type Code string

const (
	CodeFileNotFound           Code = "FILE_NOT_FOUND"
	CodeUnsupportedFileType    Code = "UNSUPPORTED_FILE_TYPE"
	CodeUnrecognizedFormat     Code = "UNRECOGNIZED_FORMAT"
	CodeUnrecognizableInterval Code = "UNRECOGNIZABLE_INTERVAL"
	CodeNoIntervalData         Code = "NO_INTERVAL_DATA"
	CodeParseFailure           Code = "PARSE_FAILURE"
	CodeEncodingFailure        Code = "ENCODING_FAILURE"
)

// PipelineError is a typed, user-facing pipeline failure. File-level codes
// abort processing of one input file; row- and section-level conditions are
// recovered locally and never reach the caller as a PipelineError.
type PipelineError struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for logging.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error.
func New(code Code, message string, cause error) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// CodeOf returns the code of err if it is (or wraps) a PipelineError.
func CodeOf(err error) (Code, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return "", false
}

// Helper constructors, one per taxonomy entry.

// NewFileNotFoundError reports a missing input file.
func NewFileNotFoundError(path string) *PipelineError {
	return New(CodeFileNotFound, fmt.Sprintf("file not found: %s", path), nil)
}

// NewUnsupportedTypeError reports an input extension outside .csv/.xlsx/.xls.
func NewUnsupportedTypeError(ext string) *PipelineError {
	return New(CodeUnsupportedFileType, fmt.Sprintf("unsupported file type %q (supported: .csv, .xlsx, .xls)", ext), nil)
}

// NewUnrecognizedFormatError reports a file whose layout matched no known signature.
func NewUnrecognizedFormatError(message string, cause error) *PipelineError {
	return New(CodeUnrecognizedFormat, message, cause)
}

// NewIntervalError reports a native interval outside {15, 30, 60} minutes.
func NewIntervalError(message string, cause error) *PipelineError {
	return New(CodeUnrecognizableInterval, message, cause)
}

// NewNoIntervalDataError reports a file that yielded no usable series.
func NewNoIntervalDataError(message string) *PipelineError {
	return New(CodeNoIntervalData, message, nil)
}

// NewParseError reports a malformed file structure (not a droppable row).
func NewParseError(message string, cause error) *PipelineError {
	return New(CodeParseFailure, message, cause)
}

// NewEncodingError reports text that none of the fallback encodings could decode.
func NewEncodingError(message string, cause error) *PipelineError {
	return New(CodeEncodingFailure, message, cause)
}
