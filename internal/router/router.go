package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clipwright/internal/command"
	"clipwright/internal/edit"
	"clipwright/internal/logging"
	"clipwright/internal/services"
)

var (
	// ErrCapabilityViolation reports a command addressed to a domain that does not own it.
	ErrCapabilityViolation = command.ErrCapabilityViolation
	// ErrUnknownCommand reports a command name absent from every domain.
	ErrUnknownCommand = command.ErrUnknownCommand
	// ErrMalformedInstruction reports an instruction line that cannot be parsed.
	ErrMalformedInstruction = fmt.Errorf("%w: malformed instruction", services.ErrValidation)
	// ErrControlCommand reports a control instruction passed to Dispatch.
	ErrControlCommand = fmt.Errorf("%w: control command is not dispatched to a domain", services.ErrValidation)
)

// Router dispatches instructions to the command handlers of their domain.
type Router struct {
	logger *slog.Logger
}

// New constructs a router.
func New(logger *slog.Logger) *Router {
	return &Router{logger: logging.NewComponentLogger(logger, "router")}
}

// Check validates an instruction against the capability table without running it.
func Check(in Instruction) error {
	if in.IsRender() {
		return ErrControlCommand
	}
	if _, ok := table[in.Domain]; !ok {
		return fmt.Errorf("%w: unknown domain %q", ErrCapabilityViolation, in.Domain)
	}
	if Allows(in.Domain, in.Command) {
		return nil
	}
	if owner, ok := DomainOf(in.Command); ok {
		return fmt.Errorf("%w: %s belongs to the %s domain, not %s", ErrCapabilityViolation, in.Command, owner, in.Domain)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, in.Command)
}

// Dispatch applies one instruction to the project.
func (r *Router) Dispatch(ctx context.Context, p *edit.Project, in Instruction) (command.Result, error) {
	logger := logging.WithContext(services.WithDomain(ctx, string(in.Domain)), r.logger).
		With(logging.String(logging.FieldCommand, in.Command))

	if err := Check(in); err != nil {
		logging.WarnWithContext(logger, "instruction rejected", "capability_violation",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "address the command to the domain that owns it"),
			logging.String(logging.FieldImpact, "instruction not applied"),
		)
		return command.Result{}, err
	}

	spec, _ := command.Lookup(in.Command)
	result, err := spec.Run(p, in.Args)
	if err != nil {
		hint := "fix the instruction arguments and retry"
		if errors.Is(err, ErrCapabilityViolation) {
			hint = "the target holds a different asset variant"
		}
		logging.WarnWithContext(logger, "instruction failed", "command_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "project unchanged"),
		)
		return command.Result{}, err
	}

	if result.Skipped() {
		logger.Info("instruction skipped",
			logging.EventType("command_skipped"),
			logging.String("outcome", string(result.Outcome)),
			logging.String("target", result.Target),
			logging.String("reason", result.Message),
		)
	} else {
		logger.Debug("instruction applied",
			logging.EventType("command_applied"),
			logging.String("target", result.Target),
		)
	}
	return result, nil
}
