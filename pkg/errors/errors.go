// Package errors provides structured error handling for RAGEval
package errors

import (
	"fmt"
	"strings"

	"github.com/ragstack/rageval/pkg/types"
)

// ErrorCode represents specific error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrCodeMalformedSample ErrorCode = "MALFORMED_SAMPLE"

	// Evaluation errors
	ErrCodeEmbeddingUnavailable ErrorCode = "EMBEDDING_UNAVAILABLE"
	ErrCodeDegenerateMetric     ErrorCode = "DEGENERATE_METRIC"
	ErrCodeEmptyDataset         ErrorCode = "EMPTY_DATASET"

	// Provider errors
	ErrCodeEmbedderError       ErrorCode = "EMBEDDER_ERROR"
	ErrCodeEmbedderTimeout     ErrorCode = "EMBEDDER_TIMEOUT"
	ErrCodeEmbedderRateLimited ErrorCode = "EMBEDDER_RATE_LIMITED"

	// Configuration errors
	ErrCodeConfigError    ErrorCode = "CONFIG_ERROR"
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Collaborator errors
	ErrCodeCacheError   ErrorCode = "CACHE_ERROR"
	ErrCodeStorageError ErrorCode = "STORAGE_ERROR"

	// System errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// RagEvalError represents a structured error in RAGEval
type RagEvalError struct {
	Type    types.ErrorType        `json:"type"`
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *RagEvalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (caused by: %v)", e.Code, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *RagEvalError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *RagEvalError) WithDetail(key string, value interface{}) *RagEvalError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new RAGEval error
func New(errType types.ErrorType, code ErrorCode, message string) *RagEvalError {
	return &RagEvalError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// NewWithCause creates a new RAGEval error with a cause
func NewWithCause(errType types.ErrorType, code ErrorCode, message string, cause error) *RagEvalError {
	return &RagEvalError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Validation error constructors
func NewValidationError(message string) *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeValidation, message)
}

func NewInvalidInputError(message string) *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeInvalidInput, message)
}

func NewMissingFieldError(field string) *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeMissingField,
		fmt.Sprintf("missing required field: %s", field)).WithDetail("field", field)
}

// NewMalformedSampleError marks one sample as unusable. The sample is
// excluded from aggregates and counted in diagnostics, never fatal.
func NewMalformedSampleError(sampleID int, reason string) *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeMalformedSample,
		fmt.Sprintf("sample %d is malformed: %s", sampleID, reason)).
		WithDetail("sample_id", sampleID)
}

// NewEmbeddingUnavailableError reports an embedding failure for a chunk.
// Classification for that chunk degrades to lexical-only judgment.
func NewEmbeddingUnavailableError(cause error) *RagEvalError {
	return NewWithCause(types.ErrorTypeExternal, ErrCodeEmbeddingUnavailable,
		"embedding provider failed", cause)
}

// NewDegenerateMetricError flags a mathematically undefined metric value
// resolved by a documented convention.
func NewDegenerateMetricError(metric string, sampleID int) *RagEvalError {
	return New(types.ErrorTypeInternal, ErrCodeDegenerateMetric,
		fmt.Sprintf("metric %s is undefined for sample %d", metric, sampleID)).
		WithDetail("metric", metric).WithDetail("sample_id", sampleID)
}

// NewEmptyDatasetError reports a dataset with zero valid samples
func NewEmptyDatasetError() *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeEmptyDataset,
		"dataset contains no valid samples")
}

// Provider error constructors
func NewEmbedderError(message string, cause error) *RagEvalError {
	return NewWithCause(types.ErrorTypeExternal, ErrCodeEmbedderError, message, cause)
}

func NewEmbedderTimeoutError(model string) *RagEvalError {
	return New(types.ErrorTypeExternal, ErrCodeEmbedderTimeout,
		fmt.Sprintf("embedding request timed out: %s", model)).WithDetail("model", model)
}

func NewEmbedderRateLimitedError(model string) *RagEvalError {
	return New(types.ErrorTypeExternal, ErrCodeEmbedderRateLimited,
		fmt.Sprintf("embedding provider rate limited: %s", model)).WithDetail("model", model)
}

// Configuration error constructors
func NewConfigError(message string) *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeConfigError, message)
}

func NewConfigNotFoundError(configPath string) *RagEvalError {
	return New(types.ErrorTypeNotFound, ErrCodeConfigNotFound,
		fmt.Sprintf("configuration file not found: %s", configPath)).
		WithDetail("config_path", configPath)
}

func NewConfigInvalidError(message string) *RagEvalError {
	return New(types.ErrorTypeValidation, ErrCodeConfigInvalid, message)
}

// Collaborator error constructors
func NewCacheError(message string, cause error) *RagEvalError {
	return NewWithCause(types.ErrorTypeExternal, ErrCodeCacheError, message, cause)
}

func NewStorageError(message string, cause error) *RagEvalError {
	return NewWithCause(types.ErrorTypeInternal, ErrCodeStorageError, message, cause)
}

// System error constructors
func NewInternalError(message string) *RagEvalError {
	return New(types.ErrorTypeInternal, ErrCodeInternal, message)
}

func NewInternalErrorWithCause(message string, cause error) *RagEvalError {
	return NewWithCause(types.ErrorTypeInternal, ErrCodeInternal, message, cause)
}

func NewNotFoundError(resource string) *RagEvalError {
	return New(types.ErrorTypeNotFound, ErrCodeNotFound,
		fmt.Sprintf("%s not found", resource)).WithDetail("resource", resource)
}

// IsRagEvalError checks if an error is a RagEvalError
func IsRagEvalError(err error) bool {
	_, ok := err.(*RagEvalError)
	return ok
}

// GetRagEvalError extracts a RagEvalError from an error
func GetRagEvalError(err error) *RagEvalError {
	if revErr, ok := err.(*RagEvalError); ok {
		return revErr
	}
	return nil
}

// HasCode reports whether err is a RagEvalError carrying the given code
func HasCode(err error, code ErrorCode) bool {
	revErr := GetRagEvalError(err)
	return revErr != nil && revErr.Code == code
}

// ErrorList represents a list of errors
type ErrorList struct {
	Errors []*RagEvalError `json:"errors"`
}

// Error implements the error interface
func (el *ErrorList) Error() string {
	var messages []string
	for _, err := range el.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Add adds an error to the list
func (el *ErrorList) Add(err *RagEvalError) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if there are errors
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// ToError returns the ErrorList as an error if it has errors, otherwise nil
func (el *ErrorList) ToError() error {
	if el.HasErrors() {
		return el
	}
	return nil
}

// NewErrorList creates a new error list
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*RagEvalError, 0),
	}
}
