package command

import (
	"clipwright/internal/edit"
)

func timelineCommands() []Spec {
	return []Spec{
		{Name: "change_timeline_background_color", Params: []string{"hex_color"}, Summary: "Set the timeline background color", Handler: changeBackground},
		{Name: "add_timeline_soundtrack", Params: []string{"url"}, Summary: "Set the background soundtrack", Handler: addSoundtrack},
		{Name: "change_timeline_soundtrack_effect", Params: []string{"effect"}, Summary: "Set the soundtrack effect", Handler: changeSoundtrackEffect},
		{Name: "change_timeline_soundtrack_volume", Params: []string{"volume"}, Summary: "Set soundtrack volume between 0 and 1", Handler: changeSoundtrackVolume},
		{Name: "choose_poster_from_timeline", Params: []string{"seconds"}, Summary: "Capture the poster frame", Handler: choosePoster},
		{Name: "choose_thumbnail_from_timeline", Params: []string{"seconds"}, Summary: "Capture the thumbnail frame", Handler: chooseThumbnail},
	}
}

func outputCommands() []Spec {
	return []Spec{
		{Name: "change_output_format", Params: []string{"format"}, Summary: "Set the output format", Handler: outputChoice(func(o *edit.Output, v string) { o.Format = v }, "mp4", "gif", "jpg", "png", "bmp", "mp3")},
		{Name: "change_output_resolution", Params: []string{"resolution"}, Summary: "Set the output resolution", Handler: outputChoice(func(o *edit.Output, v string) { o.Resolution = v }, "preview", "mobile", "sd", "hd", "1080")},
		{Name: "change_output_aspect_ratio", Params: []string{"ratio"}, Summary: "Set the output aspect ratio", Handler: outputChoice(func(o *edit.Output, v string) { o.AspectRatio = v }, "16:9", "9:16", "1:1", "4:5", "4:3")},
		{Name: "change_output_fps", Params: []string{"fps"}, Summary: "Set frames per second", Handler: changeFPS},
		{Name: "change_output_quality", Params: []string{"quality"}, Summary: "Set the encoding quality", Handler: outputChoice(func(o *edit.Output, v string) { o.Quality = v }, "low", "medium", "high")},
		{Name: "set_output_repeat", Params: []string{"repeat"}, Summary: "Loop gif output", Handler: outputFlag(func(o *edit.Output, v *bool) { o.Repeat = v })},
		{Name: "set_output_mute", Params: []string{"mute"}, Summary: "Mute the output audio", Handler: outputFlag(func(o *edit.Output, v *bool) { o.Mute = v })},
	}
}

func changeBackground(p *edit.Project, a Args) (Result, error) {
	if err := p.SetBackground(a.Field(0)); err != nil {
		return Result{}, err
	}
	return applied("timeline", "Timeline background set to %s.", a.Field(0)), nil
}

func addSoundtrack(p *edit.Project, a Args) (Result, error) {
	source, err := a.Text(0)
	if err != nil {
		return Result{}, err
	}
	if err := p.SetSoundtrack(source); err != nil {
		return Result{}, err
	}
	return applied("timeline", "Soundtrack set to %s.", source), nil
}

func changeSoundtrackEffect(p *edit.Project, a Args) (Result, error) {
	effect, err := a.OneOf(0, "fadeIn", "fadeOut", "fadeInFadeOut")
	if err != nil {
		return Result{}, err
	}
	if p.Timeline.Soundtrack == nil {
		return missingSoundtrack(), nil
	}
	p.Timeline.Soundtrack.Effect = effect
	return applied("timeline", "Soundtrack effect set to %s.", effect), nil
}

func changeSoundtrackVolume(p *edit.Project, a Args) (Result, error) {
	volume, err := a.Float(0)
	if err != nil {
		return Result{}, err
	}
	if !(volume >= 0 && volume <= 1) {
		return Result{}, a.invalid(0, "must be between 0 and 1")
	}
	if p.Timeline.Soundtrack == nil {
		return missingSoundtrack(), nil
	}
	p.Timeline.Soundtrack.Volume = &volume
	return applied("timeline", "Soundtrack volume set to %v.", volume), nil
}

func missingSoundtrack() Result {
	return Result{
		Target:  "timeline",
		Outcome: LookupMiss,
		Message: "The timeline soundtrack does not exist, skip and continue to the next step.",
	}
}

func choosePoster(p *edit.Project, a Args) (Result, error) {
	seconds, err := a.Float(0)
	if err != nil {
		return Result{}, err
	}
	if err := p.SetPoster(seconds); err != nil {
		return Result{}, err
	}
	return applied("output", "Poster captured at %vs.", seconds), nil
}

func chooseThumbnail(p *edit.Project, a Args) (Result, error) {
	seconds, err := a.Float(0)
	if err != nil {
		return Result{}, err
	}
	if err := p.SetThumbnail(seconds); err != nil {
		return Result{}, err
	}
	return applied("output", "Thumbnail captured at %vs.", seconds), nil
}

func changeFPS(p *edit.Project, a Args) (Result, error) {
	fps, err := a.Float(0)
	if err != nil {
		return Result{}, err
	}
	if err := p.SetFPS(fps); err != nil {
		return Result{}, err
	}
	return applied("output", "Output fps set to %v.", fps), nil
}

func outputChoice(set func(o *edit.Output, v string), allowed ...string) Handler {
	return func(p *edit.Project, a Args) (Result, error) {
		value, err := a.OneOf(0, allowed...)
		if err != nil {
			return Result{}, err
		}
		set(&p.Output, value)
		return applied("output", "Output %s set to %s.", a.param(0), value), nil
	}
}

func outputFlag(set func(o *edit.Output, v *bool)) Handler {
	return func(p *edit.Project, a Args) (Result, error) {
		value, err := a.Bool(0)
		if err != nil {
			return Result{}, err
		}
		set(&p.Output, &value)
		return applied("output", "Output %s set to %t.", a.param(0), value), nil
	}
}
