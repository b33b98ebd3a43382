package command

import (
	"errors"
	"fmt"

	"clipwright/internal/edit"
	"clipwright/internal/services"
)

var (
	// ErrParseArity reports an argument string with the wrong number of fields.
	ErrParseArity = fmt.Errorf("%w: argument count mismatch", services.ErrValidation)
	// ErrInvalidArgument reports a field that cannot be converted or is out of range.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", services.ErrValidation)
	// ErrCapabilityViolation reports a command applied to a target it does not own.
	ErrCapabilityViolation = fmt.Errorf("%w: capability violation", services.ErrValidation)
	// ErrUnknownCommand reports a command name missing from the catalog.
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", services.ErrNotFound)
)

// classify maps model errors onto the command sentinels.
func classify(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, edit.ErrWrongVariant):
		return fmt.Errorf("%w: %s: %w", ErrCapabilityViolation, name, err)
	case errors.Is(err, edit.ErrInvalidValue):
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
	default:
		return err
	}
}
