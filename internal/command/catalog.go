package command

import (
	"fmt"
	"slices"
	"sort"

	"clipwright/internal/edit"
)

// Handler applies one command to the project.
type Handler func(p *edit.Project, a Args) (Result, error)

// Spec describes one command: its name, parameter names, and handler.
type Spec struct {
	Name    string
	Params  []string
	Summary string
	Handler Handler
}

// Usage renders the command signature, e.g. add_text(text, start, length).
func (s Spec) Usage() string {
	out := s.Name + "("
	for i, param := range s.Params {
		if i > 0 {
			out += ", "
		}
		out += param
	}
	return out + ")"
}

var catalog = map[string]Spec{}

func register(specs ...Spec) {
	for _, spec := range specs {
		if _, exists := catalog[spec.Name]; exists {
			panic("command: duplicate registration of " + spec.Name)
		}
		catalog[spec.Name] = spec
	}
}

func init() {
	register(textCommands()...)
	register(subtitleCommands()...)
	register(mediaCommands(mediaVideo)...)
	register(mediaCommands(mediaImage)...)
	register(timelineCommands()...)
	register(outputCommands()...)
}

// Lookup returns the spec registered under name.
func Lookup(name string) (Spec, bool) {
	spec, ok := catalog[name]
	return spec, ok
}

// Names returns every registered command name in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses raw against the named command and applies it to p.
func Run(p *edit.Project, name, raw string) (Result, error) {
	spec, ok := Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return spec.Run(p, raw)
}

// Run parses raw and applies the command to p. On error p is unchanged.
func (s Spec) Run(p *edit.Project, raw string) (Result, error) {
	fields, err := SplitArgs(raw, len(s.Params))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", s.Usage(), err)
	}
	result, err := s.Handler(p, Args{command: s.Name, params: slices.Clone(s.Params), fields: fields})
	if err != nil {
		return Result{}, classify(s.Name, err)
	}
	result.Command = s.Name
	return result, nil
}
