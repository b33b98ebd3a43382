package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var delimiterPairs = map[byte]byte{
	'(':  ')',
	'[':  ']',
	'{':  '}',
	'\'': '\'',
	'"':  '"',
}

// SplitArgs strips one layer of enclosing delimiters from raw, collapses ", "
// to ",", and splits the result into exactly arity fields.
func SplitArgs(raw string, arity int) ([]string, error) {
	body := stripDelimiters(strings.TrimSpace(raw))
	if arity == 0 {
		if strings.TrimSpace(body) != "" {
			return nil, fmt.Errorf("%w: expected no arguments, got %q", ErrParseArity, raw)
		}
		return nil, nil
	}
	if arity == 1 {
		return []string{strings.TrimSpace(body)}, nil
	}
	fields := strings.Split(strings.ReplaceAll(body, ", ", ","), ",")
	if len(fields) != arity {
		return nil, fmt.Errorf("%w: expected %d fields, got %d in %q", ErrParseArity, arity, len(fields), raw)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func stripDelimiters(value string) string {
	if len(value) < 2 {
		return value
	}
	if closer, ok := delimiterPairs[value[0]]; ok && value[len(value)-1] == closer {
		return value[1 : len(value)-1]
	}
	return value
}

// Args gives typed access to the split argument fields of one command.
type Args struct {
	command string
	params  []string
	fields  []string
}

func (a Args) Field(i int) string {
	return a.fields[i]
}

func (a Args) Text(i int) (string, error) {
	if a.fields[i] == "" {
		return "", a.invalid(i, "must not be empty")
	}
	return a.fields[i], nil
}

func (a Args) Float(i int) (float64, error) {
	value, err := strconv.ParseFloat(a.fields[i], 64)
	if err != nil {
		return 0, a.invalid(i, "is not a number")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, a.invalid(i, "must be a finite number")
	}
	return value, nil
}

func (a Args) Int(i int) (int, error) {
	value, err := strconv.Atoi(a.fields[i])
	if err == nil {
		return value, nil
	}
	// Resolvers sometimes emit whole angles as "45.0".
	f, ferr := strconv.ParseFloat(a.fields[i], 64)
	if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, a.invalid(i, "is not an integer")
	}
	return int(f), nil
}

// Bool accepts only the tokens true and false, in any letter case.
func (a Args) Bool(i int) (bool, error) {
	switch strings.ToLower(a.fields[i]) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w: %s: %s must be true or false, got %q", ErrParseArity, ErrInvalidArgument, a.command, a.param(i), a.fields[i])
	}
}

// OneOf returns the field when it case-insensitively matches an allowed value,
// normalized to the allowed spelling.
func (a Args) OneOf(i int, allowed ...string) (string, error) {
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, a.fields[i]) {
			return candidate, nil
		}
	}
	return "", a.invalid(i, "must be one of "+strings.Join(allowed, ", "))
}

func (a Args) invalid(i int, reason string) error {
	return fmt.Errorf("%w: %s: %s %q %s", ErrInvalidArgument, a.command, a.param(i), a.fields[i], reason)
}

func (a Args) param(i int) string {
	if i < len(a.params) {
		return a.params[i]
	}
	return "argument " + strconv.Itoa(i+1)
}
