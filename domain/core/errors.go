package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Record-level errors: recovered by excluding the record
	ErrMalformedPotency = errors.New("malformed potency value")
	ErrNegativePotency  = errors.New("negative potency value")
	ErrWrongAssayType   = errors.New("unexpected standard type")
	ErrZeroPotency      = errors.New("zero potency has no log-potency")
	ErrStructureParse   = errors.New("structure string could not be parsed")

	// Set-level outcomes
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrEmptyGroup       = fmt.Errorf("%w: empty classification group", ErrInsufficientData)

	// Configuration errors: fail the run before any record is processed
	ErrInvalidConfig     = errors.New("invalid pipeline configuration")
	ErrUnknownDescriptor = fmt.Errorf("%w: unknown descriptor", ErrInvalidConfig)

	ErrNotFound = errors.New("resource not found")
)

// NewUnknownDescriptorError names the descriptor that is not in the registry
func NewUnknownDescriptorError(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownDescriptor, name)
}

// NewEmptyGroupError names the classification group that has no records
func NewEmptyGroupError(group string) error {
	return fmt.Errorf("%w: no %s records", ErrEmptyGroup, group)
}

// NewValidationError reports an invalid configuration field
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

// IsRecordError reports whether err only invalidates a single record
func IsRecordError(err error) bool {
	return errors.Is(err, ErrMalformedPotency) ||
		errors.Is(err, ErrNegativePotency) ||
		errors.Is(err, ErrWrongAssayType) ||
		errors.Is(err, ErrZeroPotency) ||
		errors.Is(err, ErrStructureParse)
}

// IsInsufficientData reports whether err is the "nothing to compute" outcome
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsConfigError reports whether err is a configuration failure
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
