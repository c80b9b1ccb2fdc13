package persist

import (
	"errors"
	"fmt"
)

var (
	// ErrReadonlyAttribute is returned when a mutation verb targets a field
	// the schema reports as not writable. No in-memory or storage effect has
	// occurred for any field of the failing call.
	ErrReadonlyAttribute = errors.New("mongoid: attribute is read-only")

	// ErrValidation is the error channel for validation layers outside this
	// core. Returned (wrapped) by FailDueToValidation.
	ErrValidation = errors.New("mongoid: validation failed")

	// ErrCallback is the error channel for callback layers outside this
	// core. Returned (wrapped) by FailDueToCallback.
	ErrCallback = errors.New("mongoid: callback aborted")

	// ErrUnknownVerb is returned when a mutation verb has no entry in the
	// operator registry.
	ErrUnknownVerb = errors.New("mongoid: unknown mutation verb")
)

// FailDueToValidation builds the error a validation collaborator returns from
// an atomic block body so its failure travels the same channel as any other
// block error: the owning context rolls back and the error surfaces
// unchanged. Satisfies errors.Is(err, ErrValidation).
func FailDueToValidation(messages ...string) error {
	if len(messages) == 0 {
		return ErrValidation
	}
	return fmt.Errorf("%w: %v", ErrValidation, messages)
}

// FailDueToCallback is the callback-layer counterpart of
// FailDueToValidation. Satisfies errors.Is(err, ErrCallback).
func FailDueToCallback(name string) error {
	if name == "" {
		return ErrCallback
	}
	return fmt.Errorf("%w: %s", ErrCallback, name)
}
