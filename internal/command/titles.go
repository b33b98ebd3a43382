package command

import (
	"github.com/google/uuid"

	"clipwright/internal/edit"
)

func textCommands() []Spec {
	const noun = "text"
	on := func(prep prepare) Handler { return onClip(edit.RegistryText, noun, prep) }
	return []Spec{
		{Name: "add_text", Params: []string{"text", "start", "length"}, Summary: "Add on-screen text; repeating it with new timing retimes the existing entry", Handler: addText},
		{Name: "change_text", Params: []string{"text", "new_text"}, Summary: "Replace the text content", Handler: on(setTitleText)},
		{Name: "change_text_color", Params: []string{"text", "hex_color"}, Summary: "Set the text color", Handler: on(setTitleColor)},
		{Name: "change_text_background_color", Params: []string{"text", "hex_color"}, Summary: "Set the text background color", Handler: on(setTitleBackground)},
		{Name: "change_text_style", Params: []string{"text", "style"}, Summary: "Set the title style", Handler: on(setTitleStyle)},
		{Name: "change_text_size", Params: []string{"text", "size"}, Summary: "Set the title size", Handler: on(setTitleSize)},
		{Name: "change_text_effect", Params: []string{"text", "effect"}, Summary: "Set the motion effect", Handler: on(setEffect)},
		{Name: "change_text_opacity", Params: []string{"text", "opacity"}, Summary: "Set opacity between 0 and 1", Handler: on(setOpacity)},
		{Name: "rotate_text", Params: []string{"text", "degrees"}, Summary: "Rotate between -360 and 360 degrees", Handler: on(setRotate)},
		{Name: "skew_text", Params: []string{"text", "x", "y"}, Summary: "Skew each axis between 0 and 3", Handler: on(setSkew)},
		{Name: "flip_text", Params: []string{"text", "horizontal", "vertical"}, Summary: "Flip horizontally and/or vertically", Handler: on(setFlip)},
		{Name: "change_text_position", Params: []string{"text", "position"}, Summary: "Anchor to one of nine screen positions", Handler: on(setPosition)},
		{Name: "change_text_time", Params: []string{"text", "start", "length"}, Summary: "Set start and length in seconds", Handler: on(setTime)},
		{Name: "change_text_offset", Params: []string{"text", "x", "y"}, Summary: "Offset from the anchor position", Handler: on(setOffset)},
		{Name: "add_text_transition", Params: []string{"text", "transition", "in_or_out"}, Summary: "Set the in or out transition", Handler: on(setTransition)},
	}
}

func subtitleCommands() []Spec {
	const noun = "subtitle"
	on := func(prep prepare) Handler { return onClip(edit.RegistrySubtitle, noun, prep) }
	return []Spec{
		{Name: "add_subtitle", Params: []string{"text", "start", "length"}, Summary: "Add a subtitle line; repeating it with new timing retimes the existing entry", Handler: addSubtitle},
		{Name: "change_subtitle", Params: []string{"subtitle", "new_text"}, Summary: "Replace the subtitle content", Handler: on(setTitleText)},
		{Name: "change_subtitle_time", Params: []string{"subtitle", "start", "length"}, Summary: "Set start and length in seconds", Handler: on(setTime)},
		{Name: "change_subtitle_color", Params: []string{"subtitle", "hex_color"}, Summary: "Set the subtitle color", Handler: on(setTitleColor)},
		{Name: "change_subtitle_style", Params: []string{"subtitle", "style"}, Summary: "Set the title style", Handler: on(setTitleStyle)},
		{Name: "change_subtitle_position", Params: []string{"subtitle", "position"}, Summary: "Anchor to one of nine screen positions", Handler: on(setPosition)},
		{Name: "change_subtitle_size", Params: []string{"subtitle", "size"}, Summary: "Set the title size", Handler: on(setTitleSize)},
		{Name: "change_subtitle_background_color", Params: []string{"subtitle", "hex_color"}, Summary: "Set the subtitle background color", Handler: on(setTitleBackground)},
		{Name: "change_subtitle_offset", Params: []string{"subtitle", "x", "y"}, Summary: "Offset from the anchor position", Handler: on(setOffset)},
	}
}

func addText(p *edit.Project, a Args) (Result, error) {
	text, err := a.Text(0)
	if err != nil {
		return Result{}, err
	}
	clip, err := timedClip(a, edit.NewTextAsset(text), 1)
	if err != nil {
		return Result{}, err
	}
	return upsertResult(p.Texts.Upsert(text, clip), "text", text), nil
}

// addSubtitle keys each line by a generated id. A line whose current text and
// timing already exist is a duplicate; the same text at another time is a new line.
func addSubtitle(p *edit.Project, a Args) (Result, error) {
	text, err := a.Text(0)
	if err != nil {
		return Result{}, err
	}
	clip, err := timedClip(a, edit.NewSubtitleAsset(text), 1)
	if err != nil {
		return Result{}, err
	}
	for _, entry := range p.Subtitles.Entries() {
		title, ok := entry.Clip.Asset.(*edit.TitleAsset)
		if ok && title.Text == text && entry.Clip.SameTiming(clip.Start, clip.Length) {
			return duplicate("subtitle", text), nil
		}
	}
	id := uuid.NewString()
	p.Subtitles.Upsert(id, clip)
	return applied(id, "Added subtitle %q with id %s.", text, id), nil
}

// timedClip builds a clip from the start and length fields at offset first.
func timedClip(a Args, asset edit.Asset, first int) (*edit.Clip, error) {
	start, err := a.Float(first)
	if err != nil {
		return nil, err
	}
	length, err := a.Float(first + 1)
	if err != nil {
		return nil, err
	}
	return edit.NewClip(asset, start, length)
}

func upsertResult(outcome edit.UpsertOutcome, noun, name string) Result {
	switch outcome {
	case edit.Duplicate:
		return duplicate(noun, name)
	case edit.Retimed:
		return applied(name, "Updated the timing of %s %q.", noun, name)
	default:
		return applied(name, "Added %s %q.", noun, name)
	}
}
