package errors

import (
	"errors"
	"fmt"
)

// Admission error taxonomy. Every rejection produced by the validation
// pipeline resolves to one of these codes; use errors.Is against the
// sentinels to classify a failure.
var (
	ErrUnknownEnumLiteral = NewDomainError(
		DomainValidationError,
		"UNKNOWN_ENUM_LITERAL",
		"Value is not a member of the vocabulary",
	)

	ErrUnknownEmbeddingModel = NewDomainError(
		DomainValidationError,
		"UNKNOWN_EMBEDDING_MODEL",
		"Embedding model identity is not registered",
	)

	ErrDimensionMismatch = NewDomainError(
		DomainValidationError,
		"DIMENSION_MISMATCH",
		"Embedding vector length does not match the model dimension",
	)

	ErrEmptyContributorList = NewDomainError(
		DomainValidationError,
		"EMPTY_CONTRIBUTOR_LIST",
		"Consensus provenance requires at least one contributor",
	)

	ErrScoreOutOfRange = NewDomainError(
		DomainValidationError,
		"SCORE_OUT_OF_RANGE",
		"Score must be between 0 and 1",
	)

	ErrMissingRequiredField = NewDomainError(
		DomainValidationError,
		"MISSING_REQUIRED_FIELD",
		"A required field is absent",
	)

	ErrSecurityInvariantViolation = NewDomainError(
		DomainBusinessRuleError,
		"SECURITY_INVARIANT_VIOLATION",
		"Record violates the security escalation rules",
	)

	ErrIntegrityHashMismatch = NewDomainError(
		DomainBusinessRuleError,
		"INTEGRITY_HASH_MISMATCH",
		"Stored integrity hash does not match the recomputed digest",
	)
)

// Constructor helpers. Sentinels above carry no per-failure context;
// the pipeline builds fresh instances so details never leak between
// concurrent validations.

// NewUnknownEnumLiteral creates an enum resolution failure for a vocabulary
func NewUnknownEnumLiteral(vocabulary, raw string) *DomainError {
	return NewDomainError(
		DomainValidationError,
		"UNKNOWN_ENUM_LITERAL",
		fmt.Sprintf("%q is not a member of vocabulary %q", raw, vocabulary),
	).WithDetail("vocabulary", vocabulary).WithDetail("value", raw)
}

// NewUnknownEmbeddingModel creates a resolver failure for an unregistered model
func NewUnknownEmbeddingModel(model string) *DomainError {
	return NewDomainError(
		DomainValidationError,
		"UNKNOWN_EMBEDDING_MODEL",
		fmt.Sprintf("embedding model %q is not registered", model),
	).WithDetail("model", model)
}

// NewDimensionMismatch reports both the expected and actual vector lengths
func NewDimensionMismatch(model string, expected, actual int) *DomainError {
	return NewDomainError(
		DomainValidationError,
		"DIMENSION_MISMATCH",
		fmt.Sprintf("embedding dimension mismatch for model %q: expected %d, got %d", model, expected, actual),
	).WithDetail("model", model).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

// NewEmptyContributorList creates the empty contributor failure
func NewEmptyContributorList() *DomainError {
	return NewDomainError(
		DomainValidationError,
		"EMPTY_CONTRIBUTOR_LIST",
		"consensus provenance requires at least one contributor",
	)
}

// NewScoreOutOfRange reports a unit-interval violation for a named score
func NewScoreOutOfRange(field string, value float64) *DomainError {
	return NewDomainError(
		DomainValidationError,
		"SCORE_OUT_OF_RANGE",
		fmt.Sprintf("%s must be within [0, 1], got %v", field, value),
	).WithField(field).WithDetail("value", value)
}

// NewMissingRequiredField creates a missing field failure tagged with its path
func NewMissingRequiredField(field string) *DomainError {
	return NewDomainError(
		DomainValidationError,
		"MISSING_REQUIRED_FIELD",
		fmt.Sprintf("required field %q is absent", field),
	).WithField(field)
}

// NewSecurityInvariantViolation creates an escalation rule failure
func NewSecurityInvariantViolation(message string) *DomainError {
	return NewDomainError(
		DomainBusinessRuleError,
		"SECURITY_INVARIANT_VIOLATION",
		message,
	)
}

// NewIntegrityHashMismatch reports a tamper-evidence failure on re-validation
func NewIntegrityHashMismatch(stored, computed string) *DomainError {
	return NewDomainError(
		DomainBusinessRuleError,
		"INTEGRITY_HASH_MISMATCH",
		"stored integrity hash does not match the recomputed digest",
	).WithDetail("stored", stored).WithDetail("computed", computed)
}

// Helper functions

// GetDomainError extracts a DomainError from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsType checks if an error is of a specific domain error type
func IsType(err error, errType DomainErrorType) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Type == errType
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, DomainValidationError)
}

// IsBusinessRule checks if an error is a business rule violation
func IsBusinessRule(err error) bool {
	return IsType(err, DomainBusinessRuleError)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already a DomainError, add context to message
	if domainErr := GetDomainError(err); domainErr != nil {
		domainErr.Message = fmt.Sprintf("%s: %s", message, domainErr.Message)
		return domainErr
	}

	return NewDomainError(DomainInfrastructureError, "INTERNAL", message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
