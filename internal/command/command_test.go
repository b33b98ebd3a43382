package command_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"clipwright/internal/command"
	"clipwright/internal/edit"
	"clipwright/internal/render"
	"clipwright/internal/services"
)

func run(t *testing.T, p *edit.Project, name, raw string) command.Result {
	t.Helper()
	result, err := command.Run(p, name, raw)
	if err != nil {
		t.Fatalf("Run(%s, %q) returned error: %v", name, raw, err)
	}
	if result.Command != name {
		t.Fatalf("expected result command %q, got %q", name, result.Command)
	}
	return result
}

func TestAddTextIsIdempotent(t *testing.T) {
	p := edit.NewProject()
	first := run(t, p, "add_text", "(T, 1.0, 2.0)")
	second := run(t, p, "add_text", "(T, 1.0, 2.0)")

	if first.Outcome != command.Applied {
		t.Fatalf("expected first add to apply, got %s", first.Outcome)
	}
	if second.Outcome != command.DuplicateNoop {
		t.Fatalf("expected DuplicateNoop, got %s", second.Outcome)
	}
	if !strings.Contains(second.Message, "continue to the next step") {
		t.Fatalf("expected continue hint, got %q", second.Message)
	}
	if p.Texts.Len() != 1 {
		t.Fatalf("expected one text entry, got %d", p.Texts.Len())
	}
	clip := p.Texts.Get("T")
	if clip.Start != 1.0 || clip.Length != 2.0 {
		t.Fatalf("unexpected timing %v/%v", clip.Start, clip.Length)
	}
}

func TestChangeOnMissingTargetIsLookupMiss(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_text", "(Hello, 0.0, 1.0)")
	before := p.Snapshot()

	result := run(t, p, "change_text_color", "(Nope, #FFCA28)")
	if result.Outcome != command.LookupMiss || !result.Skipped() {
		t.Fatalf("expected LookupMiss, got %s", result.Outcome)
	}
	if p.Texts.Len() != before.Texts.Len() {
		t.Fatalf("registry size changed")
	}
	title, _ := p.Texts.Get("Hello").Title()
	beforeTitle, _ := before.Texts.Get("Hello").Title()
	if *title != *beforeTitle {
		t.Fatalf("existing entry changed: %+v vs %+v", title, beforeTitle)
	}
}

func TestTextCommandsMutateTitle(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_text", "(Sport Time, 0.0, 7.0)")
	for _, step := range []struct{ name, raw string }{
		{"change_text_color", "(Sport Time, #FFCA28)"},
		{"change_text_background_color", "(Sport Time, #000)"},
		{"change_text_style", "(Sport Time, Blockbuster)"},
		{"change_text_size", "(Sport Time, small)"},
		{"change_text_position", "(Sport Time, top right)"},
		{"change_text_offset", "(Sport Time, 0.1, -0.2)"},
		{"rotate_text", "(Sport Time, 45)"},
		{"flip_text", "(Sport Time, True, false)"},
		{"add_text_transition", "(Sport Time, zoom, in)"},
		{"change_text", "(Sport Time, Game On)"},
	} {
		if result := run(t, p, step.name, step.raw); result.Outcome != command.Applied {
			t.Fatalf("%s: expected Applied, got %s: %s", step.name, result.Outcome, result.Message)
		}
	}

	clip := p.Texts.Get("Sport Time")
	title, err := clip.Title()
	if err != nil {
		t.Fatalf("Title returned error: %v", err)
	}
	if title.Color != "#FFCA28" || title.Background != "#000" || title.Style != "blockbuster" || title.Size != "small" {
		t.Fatalf("unexpected title fields: %+v", title)
	}
	if title.Position != edit.PositionTopRight || title.Offset == nil || title.Offset.Y != -0.2 {
		t.Fatalf("unexpected placement: %+v", title)
	}
	if title.Text != "Game On" {
		t.Fatalf("expected content change, got %q", title.Text)
	}
	if clip.Transform.Rotate != 45 || !clip.Transform.FlipHorizontal || clip.Transform.FlipVertical {
		t.Fatalf("unexpected transform: %+v", clip.Transform)
	}
	if clip.Transition.In != "zoom" {
		t.Fatalf("unexpected transition: %+v", clip.Transition)
	}
	if got := run(t, p, "change_text_opacity", "(Game On, 0.4)"); got.Target != "Sport Time" || clip.Opacity != 0.4 {
		t.Fatalf("expected lookup by current content, got target %q opacity %v", got.Target, clip.Opacity)
	}
}

func TestBooleanParsingIsExact(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_video", "(u, skater, 0.0, 5.0)")

	run(t, p, "flip_video", "(skater, False, TRUE)")
	clip := p.Media.Get("skater")
	if clip.Transform.FlipHorizontal || !clip.Transform.FlipVertical {
		t.Fatalf("expected False to parse as false: %+v", clip.Transform)
	}

	_, err := command.Run(p, "flip_video", "(skater, yes, no)")
	if !errors.Is(err, command.ErrParseArity) || !errors.Is(err, command.ErrInvalidArgument) {
		t.Fatalf("expected parse failure for non-boolean token, got %v", err)
	}
	_, err = command.Run(p, "set_output_mute", "(False)")
	if err != nil || p.Output.Mute == nil || *p.Output.Mute {
		t.Fatalf("expected mute=false, got %v err=%v", p.Output.Mute, err)
	}
}

func TestErrorsLeaveProjectUnchanged(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_image", "(https://example.com/a.png, logo, 0.0, 3.0)")
	run(t, p, "add_text", "(Title, 0.0, 3.0)")

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"add_text", "(Title, 1.0)", command.ErrParseArity},
		{"change_text_opacity", "(Title, 2.0)", command.ErrInvalidArgument},
		{"change_text_color", "(Title, yellow)", command.ErrInvalidArgument},
		{"rotate_image", "(logo, forty)", command.ErrInvalidArgument},
		{"add_image_transition", "(logo, fade, middle)", command.ErrInvalidArgument},
		{"change_video_volume", "(logo, 0.5)", command.ErrCapabilityViolation},
		{"trim_video", "(logo, 2.0)", command.ErrCapabilityViolation},
		{"change_output_resolution", "(4k)", command.ErrInvalidArgument},
		{"no_such_command", "()", command.ErrUnknownCommand},
	}
	for _, tc := range tests {
		_, err := command.Run(p, tc.name, tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Run(%s, %q) expected %v, got %v", tc.name, tc.raw, tc.want, err)
		}
	}
	if !errors.Is(command.ErrCapabilityViolation, services.ErrValidation) {
		t.Fatal("expected capability violation to classify as validation")
	}

	image := p.Media.Get("logo")
	if image.Transform != nil || image.Transition != nil {
		t.Fatalf("expected image untouched, got %+v", image)
	}
	if p.Texts.Get("Title").Opacity != 1 || p.Output.Resolution != "sd" {
		t.Fatal("expected text and output untouched")
	}
}

func TestSubtitlesUseStableIDs(t *testing.T) {
	p := edit.NewProject()
	added := run(t, p, "add_subtitle", "(without a second glance, 2.5, 0.5)")
	if added.Outcome != command.Applied || added.Target == "" {
		t.Fatalf("expected applied subtitle with id, got %+v", added)
	}
	id := added.Target

	if dup := run(t, p, "add_subtitle", "(without a second glance, 2.5, 0.5)"); dup.Outcome != command.DuplicateNoop {
		t.Fatalf("expected DuplicateNoop, got %s", dup.Outcome)
	}
	if again := run(t, p, "add_subtitle", "(without a second glance, 5.0, 0.5)"); again.Outcome != command.Applied {
		t.Fatalf("expected second line at new time, got %s", again.Outcome)
	}
	if p.Subtitles.Len() != 2 {
		t.Fatalf("expected 2 subtitles, got %d", p.Subtitles.Len())
	}

	run(t, p, "change_subtitle", "("+id+", a quick look)")
	if result := run(t, p, "change_subtitle_color", "(a quick look, #FFFFFF)"); result.Target != id {
		t.Fatalf("expected content lookup to resolve id %s, got %q", id, result.Target)
	}
	if result := run(t, p, "change_subtitle_offset", "("+id+", 0.0, 0.1)"); result.Outcome != command.Applied {
		t.Fatalf("expected offset applied, got %s", result.Outcome)
	}
	if p.Texts.Len() != 0 {
		t.Fatal("subtitle commands must not touch the text registry")
	}
	title, _ := p.Subtitles.Get(id).Title()
	if title.Text != "a quick look" || title.Color != "#FFFFFF" || title.Style != "subtitle" || title.Position != edit.PositionBottom {
		t.Fatalf("unexpected subtitle: %+v", title)
	}
}

func TestMediaReorder(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_video", "(u1, A, 0.0, 5.0)")
	run(t, p, "add_image", "(u2, B, 0.0, 5.0)")
	run(t, p, "add_video", "(u3, C, 0.0, 5.0)")

	if r := run(t, p, "video_move_forward", "(A)"); r.Outcome != command.Unchanged {
		t.Fatalf("expected Unchanged at front, got %s", r.Outcome)
	}
	if r := run(t, p, "video_move_backward", "(C)"); r.Outcome != command.Unchanged {
		t.Fatalf("expected Unchanged at back, got %s", r.Outcome)
	}
	if r := run(t, p, "image_move_forward", "(B)"); r.Outcome != command.Applied {
		t.Fatalf("expected Applied, got %s", r.Outcome)
	}
	if got := strings.Join(p.Media.Names(), ","); got != "B,A,C" {
		t.Fatalf("expected B,A,C got %s", got)
	}
	if r := run(t, p, "video_move_forward", "(Z)"); r.Outcome != command.LookupMiss {
		t.Fatalf("expected LookupMiss, got %s", r.Outcome)
	}
}

func TestVideoCommands(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_video", "(https://example.com/v.mp4, skater, 0.0, 5.0)")
	for _, step := range []struct{ name, raw string }{
		{"change_video_volume", "(skater, 0.3)"},
		{"change_video_volume_effect", "(skater, fadeout)"},
		{"trim_video", "(skater, 1.5)"},
		{"crop_video", "(skater, 0.1, 0.2, 0.0, 0.0)"},
		{"scale_video", "(skater, 0.7)"},
		{"set_video_position", "(skater, bottomLeft)"},
		{"change_video_offset", "(skater, 0.1, -0.2)"},
		{"change_video_effect", "(skater, zoomIn)"},
		{"add_video_filter", "(skater, greyscale)"},
		{"set_video_opacity", "(skater, 0.8)"},
		{"skew_video", "(skater, 0.5, 1.5)"},
		{"change_video_time", "(skater, 1.0, 4.0)"},
	} {
		run(t, p, step.name, step.raw)
	}

	clip := p.Media.Get("skater")
	video, err := clip.Video()
	if err != nil {
		t.Fatalf("Video returned error: %v", err)
	}
	if *video.Volume != 0.3 || video.VolumeEffect != "fadeOut" || *video.Trim != 1.5 || video.Crop.Bottom != 0.2 {
		t.Fatalf("unexpected video asset: %+v", video)
	}
	if *clip.Scale != 0.7 || clip.Position != edit.PositionBottomLeft || clip.Offset.X != 0.1 {
		t.Fatalf("unexpected placement: %+v", clip)
	}
	if clip.Effect != "zoomIn" || clip.Filter != "greyscale" || clip.Opacity != 0.8 {
		t.Fatalf("unexpected effects: %+v", clip)
	}
	if clip.Transform.SkewX != 0.5 || clip.Transform.SkewY != 1.5 || clip.Start != 1.0 || clip.Length != 4.0 {
		t.Fatalf("unexpected transform/timing: %+v", clip)
	}
}

func TestTimelineAndOutputCommands(t *testing.T) {
	p := edit.NewProject()
	if r := run(t, p, "change_timeline_soundtrack_volume", "(0.5)"); r.Outcome != command.LookupMiss {
		t.Fatalf("expected LookupMiss without soundtrack, got %s", r.Outcome)
	}
	run(t, p, "add_timeline_soundtrack", "(https://example.com/music.mp3)")
	run(t, p, "change_timeline_soundtrack_effect", "(fadeInFadeOut)")
	run(t, p, "change_timeline_soundtrack_volume", "(0.5)")
	run(t, p, "change_timeline_background_color", "(#FFFFFF)")
	run(t, p, "choose_poster_from_timeline", "(2.0)")
	run(t, p, "choose_thumbnail_from_timeline", "(3.0)")
	run(t, p, "change_output_format", "(GIF)")
	run(t, p, "change_output_resolution", "(hd)")
	run(t, p, "change_output_aspect_ratio", "(9:16)")
	run(t, p, "change_output_fps", "(30)")
	run(t, p, "change_output_quality", "(high)")
	run(t, p, "set_output_repeat", "(true)")

	st := p.Timeline.Soundtrack
	if st.Source != "https://example.com/music.mp3" || st.Effect != "fadeInFadeOut" || *st.Volume != 0.5 {
		t.Fatalf("unexpected soundtrack %+v", st)
	}
	if p.Timeline.Background != "#FFFFFF" {
		t.Fatalf("unexpected background %q", p.Timeline.Background)
	}
	out := p.Output
	if out.Format != "gif" || out.Resolution != "hd" || out.AspectRatio != "9:16" || *out.FPS != 30 || out.Quality != "high" || !*out.Repeat {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Poster.Capture != 2 || out.Thumbnail.Capture != 3 || out.Thumbnail.Scale != 1.0 {
		t.Fatalf("unexpected poster/thumbnail %+v %+v", out.Poster, out.Thumbnail)
	}
}

func TestCatalogUsage(t *testing.T) {
	spec, ok := command.Lookup("add_video")
	if !ok {
		t.Fatal("expected add_video in catalog")
	}
	if got := spec.Usage(); got != "add_video(url, name, start, length)" {
		t.Fatalf("unexpected usage %q", got)
	}
	if len(command.Names()) < 60 {
		t.Fatalf("expected full catalog, got %d commands", len(command.Names()))
	}
}

func TestNonFiniteNumbersAreRejected(t *testing.T) {
	p := edit.NewProject()
	run(t, p, "add_video", "(https://example.com/a.mp4, skater, 0.0, 5.0)")
	run(t, p, "add_image", "(https://example.com/a.png, logo, 0.0, 3.0)")
	run(t, p, "add_text", "(Title, 0.0, 3.0)")
	run(t, p, "add_subtitle", "(hello there, 0.0, 2.0)")
	run(t, p, "add_timeline_soundtrack", "(https://example.com/a.mp3)")

	templates := []struct {
		name string
		raw  string
	}{
		{"add_text", "(Other, %s, 1.0)"},
		{"change_text_time", "(Title, 0.0, %s)"},
		{"change_text_opacity", "(Title, %s)"},
		{"change_text_offset", "(Title, %s, 0.1)"},
		{"skew_text", "(Title, 0.1, %s)"},
		{"rotate_text", "(Title, %s)"},
		{"add_subtitle", "(later, %s, 1.0)"},
		{"change_subtitle_time", "(hello there, %s, 1.0)"},
		{"add_video", "(https://example.com/b.mp4, other, 0.0, %s)"},
		{"change_video_volume", "(skater, %s)"},
		{"trim_video", "(skater, %s)"},
		{"scale_video", "(skater, %s)"},
		{"crop_video", "(skater, %s, 0.0, 0.0, 0.0)"},
		{"set_video_opacity", "(skater, %s)"},
		{"change_video_offset", "(skater, 0.1, %s)"},
		{"scale_image", "(logo, %s)"},
		{"change_image_time", "(logo, %s, 1.0)"},
		{"change_timeline_soundtrack_volume", "(%s)"},
		{"choose_poster_from_timeline", "(%s)"},
		{"choose_thumbnail_from_timeline", "(%s)"},
		{"change_output_fps", "(%s)"},
	}
	for _, tc := range templates {
		for _, value := range []string{"NaN", "Inf", "+Inf", "-Inf", "Infinity"} {
			raw := strings.Replace(tc.raw, "%s", value, 1)
			if _, err := command.Run(p, tc.name, raw); !errors.Is(err, command.ErrInvalidArgument) {
				t.Fatalf("Run(%s, %q) expected invalid argument, got %v", tc.name, raw, err)
			}
		}
	}

	if _, err := json.Marshal(render.Encode(p)); err != nil {
		t.Fatalf("render request no longer encodes: %v", err)
	}
	if p.Timeline.Soundtrack.Volume != nil || p.Output.FPS != nil || p.Output.Poster != nil {
		t.Fatal("expected timeline and output untouched")
	}
}
