package command

import (
	"clipwright/internal/edit"
)

type mediaKind struct {
	noun    string
	factory func(source string) edit.Asset
}

var (
	mediaVideo = mediaKind{noun: "video", factory: func(src string) edit.Asset { return edit.NewVideoAsset(src) }}
	mediaImage = mediaKind{noun: "image", factory: func(src string) edit.Asset { return edit.NewImageAsset(src) }}
)

// mediaCommands builds the commands shared by videos and images. Both operate
// on the one video/image registry, whose order is the layer order.
func mediaCommands(kind mediaKind) []Spec {
	n := kind.noun
	on := func(prep prepare) Handler { return onClip(edit.RegistryMedia, n, prep) }
	specs := []Spec{
		{Name: "add_" + n, Params: []string{"url", "name", "start", "length"}, Summary: "Add a " + n + " from a URL; reusing the name with new timing retimes the existing entry", Handler: addMedia(kind)},
		{Name: "crop_" + n, Params: []string{"name", "top", "bottom", "left", "right"}, Summary: "Crop edges by fractions between 0 and 1", Handler: on(setCrop)},
		{Name: "add_" + n + "_transition", Params: []string{"name", "transition", "in_or_out"}, Summary: "Set the in or out transition", Handler: on(setTransition)},
		{Name: "change_" + n + "_time", Params: []string{"name", "start", "length"}, Summary: "Set start and length in seconds", Handler: on(setTime)},
		{Name: "scale_" + n, Params: []string{"name", "scale"}, Summary: "Scale relative to the viewport", Handler: on(setScale)},
		{Name: "set_" + n + "_position", Params: []string{"name", "position"}, Summary: "Anchor to one of nine screen positions", Handler: on(setPosition)},
		{Name: "change_" + n + "_offset", Params: []string{"name", "x", "y"}, Summary: "Offset from the anchor position", Handler: on(setOffset)},
		{Name: "change_" + n + "_effect", Params: []string{"name", "effect"}, Summary: "Set the motion effect", Handler: on(setEffect)},
		{Name: "add_" + n + "_filter", Params: []string{"name", "filter"}, Summary: "Apply a color filter", Handler: on(setFilter)},
		{Name: "set_" + n + "_opacity", Params: []string{"name", "opacity"}, Summary: "Set opacity between 0 and 1", Handler: on(setOpacity)},
		{Name: "rotate_" + n, Params: []string{"name", "degrees"}, Summary: "Rotate between -360 and 360 degrees", Handler: on(setRotate)},
		{Name: "skew_" + n, Params: []string{"name", "x", "y"}, Summary: "Skew each axis between 0 and 3", Handler: on(setSkew)},
		{Name: "flip_" + n, Params: []string{"name", "horizontal", "vertical"}, Summary: "Flip horizontally and/or vertically", Handler: on(setFlip)},
		{Name: n + "_move_forward", Params: []string{"name"}, Summary: "Move one layer toward the viewer", Handler: reorder(n, edit.Forward)},
		{Name: n + "_move_backward", Params: []string{"name"}, Summary: "Move one layer away from the viewer", Handler: reorder(n, edit.Backward)},
	}
	if kind.noun == mediaVideo.noun {
		specs = append(specs,
			Spec{Name: "change_video_volume", Params: []string{"name", "volume"}, Summary: "Set volume between 0 and 1", Handler: on(setVolume)},
			Spec{Name: "change_video_volume_effect", Params: []string{"name", "effect"}, Summary: "Set the volume effect", Handler: on(setVolumeEffect)},
			Spec{Name: "trim_video", Params: []string{"name", "seconds"}, Summary: "Skip the first seconds of the source", Handler: on(setTrim)},
		)
	}
	return specs
}

func addMedia(kind mediaKind) Handler {
	return func(p *edit.Project, a Args) (Result, error) {
		source, err := a.Text(0)
		if err != nil {
			return Result{}, err
		}
		name, err := a.Text(1)
		if err != nil {
			return Result{}, err
		}
		clip, err := timedClip(a, kind.factory(source), 2)
		if err != nil {
			return Result{}, err
		}
		return upsertResult(p.Media.Upsert(name, clip), kind.noun, name), nil
	}
}

func reorder(noun string, dir edit.Direction) Handler {
	return func(p *edit.Project, a Args) (Result, error) {
		name := a.Field(0)
		switch p.Media.Reorder(name, dir) {
		case edit.Missing:
			return lookupMiss(noun, name), nil
		case edit.AtBoundary:
			layer := "front"
			if dir == edit.Backward {
				layer = "back"
			}
			return unchanged(name, "The %s %q is already the %s layer, skip and continue to the next step.", noun, name, layer), nil
		default:
			return applied(name, "Moved %s %q one layer %s.", noun, name, dir), nil
		}
	}
}

func setCrop(a Args) (mutation, error) {
	var edges [4]float64
	for i := range edges {
		value, err := a.Float(i + 1)
		if err != nil {
			return nil, err
		}
		edges[i] = value
	}
	crop := edit.Crop{Top: edges[0], Bottom: edges[1], Left: edges[2], Right: edges[3]}
	return func(c *edit.Clip) error { return c.SetCrop(crop) }, nil
}

func setVolume(a Args) (mutation, error) {
	value, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetVolume(value) }, nil
}

func setVolumeEffect(a Args) (mutation, error) {
	effect, err := a.OneOf(1, "fadeIn", "fadeOut", "fadeInFadeOut")
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetVolumeEffect(effect) }, nil
}

func setTrim(a Args) (mutation, error) {
	seconds, err := a.Float(1)
	if err != nil {
		return nil, err
	}
	return func(c *edit.Clip) error { return c.SetTrim(seconds) }, nil
}
