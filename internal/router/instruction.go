package router

import (
	"fmt"
	"strings"
)

// Instruction is one resolver step: a domain, a command name, and the raw
// argument string.
type Instruction struct {
	Domain  Domain `json:"domain,omitempty"`
	Command string `json:"command"`
	Args    string `json:"args,omitempty"`
}

// IsRender reports whether the instruction is the render control command.
func (i Instruction) IsRender() bool {
	return i.Command == RenderCommand
}

// String renders the instruction in the line form ParseLine accepts.
func (i Instruction) String() string {
	if i.IsRender() {
		return RenderCommand
	}
	args := i.Args
	if !strings.HasPrefix(args, "(") {
		args = "(" + args + ")"
	}
	if i.Domain == "" {
		return i.Command + args
	}
	return string(i.Domain) + " " + i.Command + args
}

// ParseLine parses "domain command(args)", "command(args)", or "render".
// Blank lines and lines starting with # report ok=false. When the domain is
// omitted it is taken from the table.
func ParseLine(line string) (Instruction, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Instruction{}, false, nil
	}
	if trimmed == "render" || trimmed == RenderCommand || trimmed == RenderCommand+"()" {
		return Instruction{Command: RenderCommand}, true, nil
	}

	head, args := trimmed, ""
	if open := strings.Index(trimmed, "("); open >= 0 {
		if !strings.HasSuffix(trimmed, ")") {
			return Instruction{}, false, fmt.Errorf("%w: unbalanced parentheses in %q", ErrMalformedInstruction, line)
		}
		head, args = strings.TrimSpace(trimmed[:open]), trimmed[open:]
	}

	fields := strings.Fields(head)
	var in Instruction
	switch len(fields) {
	case 1:
		in.Command = fields[0]
		domain, ok := DomainOf(in.Command)
		if !ok {
			return Instruction{}, false, fmt.Errorf("%w: %q", ErrUnknownCommand, in.Command)
		}
		in.Domain = domain
	case 2:
		domain, err := ParseDomain(fields[0])
		if err != nil {
			return Instruction{}, false, err
		}
		if _, ok := DomainOf(fields[1]); !ok {
			return Instruction{}, false, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[1])
		}
		in.Domain, in.Command = domain, fields[1]
	default:
		return Instruction{}, false, fmt.Errorf("%w: expected \"domain command(args)\", got %q", ErrMalformedInstruction, line)
	}
	in.Args = args
	return in, true, nil
}
