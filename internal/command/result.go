package command

import "fmt"

// Outcome classifies what a command did to the project.
type Outcome string

const (
	Applied       Outcome = "applied"
	LookupMiss    Outcome = "lookup_miss"
	DuplicateNoop Outcome = "duplicate_noop"
	Unchanged     Outcome = "unchanged"
)

// Result describes a command that ran without a fatal error.
type Result struct {
	Command string  `json:"command"`
	Target  string  `json:"target,omitempty"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// Skipped reports whether the command left the project untouched.
func (r Result) Skipped() bool {
	return r.Outcome != Applied
}

func applied(target, format string, args ...any) Result {
	return Result{Target: target, Outcome: Applied, Message: fmt.Sprintf(format, args...)}
}

func lookupMiss(noun, ref string) Result {
	return Result{
		Target:  ref,
		Outcome: LookupMiss,
		Message: fmt.Sprintf("The %s %q does not exist, skip and continue to the next step.", noun, ref),
	}
}

func duplicate(noun, ref string) Result {
	return Result{
		Target:  ref,
		Outcome: DuplicateNoop,
		Message: fmt.Sprintf("The %s %q has already been added in the project, skip and continue to the next step.", noun, ref),
	}
}

func unchanged(target, format string, args ...any) Result {
	return Result{Target: target, Outcome: Unchanged, Message: fmt.Sprintf(format, args...)}
}
