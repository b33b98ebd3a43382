package command

import (
	"fmt"

	"clipwright/internal/edit"
)

// mutation changes one clip. It must validate before touching the clip.
type mutation func(c *edit.Clip) error

// prepare converts the typed arguments into a mutation before any lookup runs.
type prepare func(a Args) (mutation, error)

var (
	titleSizes  = []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large"}
	titleStyles = []string{"minimal", "blockbuster", "vogue", "sketchy", "skinny", "chunk", "chunkLight", "marker", "future", "subtitle"}
)

// onClip resolves the first argument in a registry and applies the prepared
// mutation. A missing target yields a LookupMiss result.
func onClip(kind edit.RegistryKind, noun string, prep prepare) Handler {
	return func(p *edit.Project, a Args) (Result, error) {
		mutate, err := prep(a)
		if err != nil {
			return Result{}, err
		}
		ref := a.Field(0)
		name, clip := p.Registry(kind).Lookup(ref)
		if clip == nil {
			return lookupMiss(noun, ref), nil
		}
		if err := mutate(clip); err != nil {
			return Result{}, err
		}
		return applied(name, "Applied %s to %s %q.", a.command, noun, ref), nil
	}
}

func onTitle(fn func(t *edit.TitleAsset)) mutation {
	return func(c *edit.Clip) error {
		title, err := c.Title()
		if err != nil {
			return err
		}
		fn(title)
		return nil
	}
}

func setTime(a Args) (mutation, error) {
	start, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	length, err := a.Float(2)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetTiming(start, length) }, nil
}

func setOpacity(a Args) (mutation, error) {
	value, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetOpacity(value) }, nil
}

func setScale(a Args) (mutation, error) {
	value, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetScale(value) }, nil
}

func setRotate(a Args) (mutation, error) {
	degrees, err := a.Int(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetRotate(degrees) }, nil
}

func setSkew(a Args) (mutation, error) {
	x, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	y, err := a.Float(2)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetSkew(x, y) }, nil
}

func setFlip(a Args) (mutation, error) {
	horizontal, err := a.Bool(1)
	if err != nil {
		return nil, err
	}
	vertical, err := a.Bool(2)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error {
		c.SetFlip(horizontal, vertical)
		return nil
	}, nil
}

func setPosition(a Args) (mutation, error) {
	pos, ok := edit.ParsePosition(a.Field(1))
	if !ok {
		return nil, a.invalid(1, fmt.Sprintf("is not one of %v", edit.Positions()))
	}
	return func(c *edit.Clip) error {
		c.SetPosition(pos)
		return nil
	}, nil
}

func setOffset(a Args) (mutation, error) {
	x, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	y, err := a.Float(2)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetOffset(x, y) }, nil
}

func setEffect(a Args) (mutation, error) {
	effect, err := a.Text(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error {
		c.Effect = effect
		return nil
	}, nil
}

func setFilter(a Args) (mutation, error) {
	filter, err := a.Text(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error {
		c.Filter = filter
		return nil
	}, nil
}

func setTransition(a Args) (mutation, error) {
	effect, err := a.Text(1)
	if err != nil {
		return nil, err
	}
	edge, err := a.OneOf(2, string(edit.EdgeIn), string(edit.EdgeOut))
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetTransition(effect, edit.Edge(edge)) }, nil
}

func setTitleText(a Args) (mutation, error) {
	text, err := a.Text(1)
	if err != nil {
		return nil, err
	}
	return onTitle(func(t *edit.TitleAsset) { t.Text = text }), nil
}

func setTitleColor(a Args) (mutation, error) {
	color := a.Field(1)
	if err := edit.ValidateColor(color); err != nil {
		return nil, err
	}
	return onTitle(func(t *edit.TitleAsset) { t.Color = color }), nil
}

func setTitleBackground(a Args) (mutation, error) {
	color := a.Field(1)
	if err := edit.ValidateColor(color); err != nil {
		return nil, err
	}
	return onTitle(func(t *edit.TitleAsset) { t.Background = color }), nil
}

func setTitleStyle(a Args) (mutation, error) {
	style, err := a.OneOf(1, titleStyles...)
	if err != nil {
		return nil, err
	}
	return onTitle(func(t *edit.TitleAsset) { t.Style = style }), nil
}

func setTitleSize(a Args) (mutation, error) {
	size, err := a.OneOf(1, titleSizes...)
	if err != nil {
		return nil, err
	}
	return onTitle(func(t *edit.TitleAsset) { t.Size = size }), nil
}
