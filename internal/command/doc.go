// Package command implements the editing operations applied to an edit.Project.
//
// Each command takes its arguments in the parenthesized comma form emitted by
// the intent resolver, for example "(Sport Time, 0.0, 7.0)". Run strips one
// layer of enclosing delimiters, splits the fields, checks the arity, converts
// the typed fields, and invokes exactly one handler.
//
// Tolerated conditions (a missing target, a repeated add, a reorder at the
// edge of a registry) are not errors: they come back as a Result with a
// non-applied Outcome and a message telling the caller to continue. Errors are
// reserved for malformed input (ErrParseArity, ErrInvalidArgument) and fields
// that do not apply to the target's asset variant (ErrCapabilityViolation).
package command
