package render

import (
	"fmt"

	"clipwright/internal/edit"
)

// Decoded is the edit-package view of a request document.
type Decoded struct {
	Timeline edit.Timeline
	Output   edit.Output
	Tracks   []edit.Track
}

// Encode serializes a project into a request document. Tracks follow
// Project.Tracks: text, then subtitles, then video and image clips.
func Encode(p *edit.Project) Edit {
	tracks := p.Tracks()
	doc := Edit{
		Timeline: Timeline{
			Background: p.Timeline.Background,
			Soundtrack: encodeSoundtrack(p.Timeline.Soundtrack),
			Tracks:     make([]Track, 0, len(tracks)),
		},
		Output: encodeOutput(p.Output),
	}
	for _, track := range tracks {
		clips := make([]Clip, 0, len(track.Clips))
		for _, clip := range track.Clips {
			clips = append(clips, encodeClip(clip))
		}
		doc.Timeline.Tracks = append(doc.Timeline.Tracks, Track{Clips: clips})
	}
	return doc
}

// DecodeEdit maps a request document back into edit types.
func DecodeEdit(doc Edit) (Decoded, error) {
	out := Decoded{
		Timeline: edit.Timeline{Background: doc.Timeline.Background},
		Output:   decodeOutput(doc.Output),
		Tracks:   make([]edit.Track, 0, len(doc.Timeline.Tracks)),
	}
	if st := doc.Timeline.Soundtrack; st != nil {
		out.Timeline.Soundtrack = &edit.Soundtrack{Source: st.Src, Effect: st.Effect, Volume: copyFloat(st.Volume)}
	}
	for ti, track := range doc.Timeline.Tracks {
		clips := make([]*edit.Clip, 0, len(track.Clips))
		for ci, clip := range track.Clips {
			decoded, err := decodeClip(clip)
			if err != nil {
				return Decoded{}, fmt.Errorf("track %d clip %d: %w", ti, ci, err)
			}
			clips = append(clips, decoded)
		}
		out.Tracks = append(out.Tracks, edit.Track{Clips: clips})
	}
	return out, nil
}

func encodeClip(c *edit.Clip) Clip {
	out := Clip{
		Asset:    encodeAsset(c.Asset),
		Start:    c.Start,
		Length:   c.Length,
		Effect:   c.Effect,
		Filter:   c.Filter,
		Scale:    copyFloat(c.Scale),
		Position: string(c.Position),
		Offset:   encodeOffset(c.Offset),
	}
	// Full opacity is the service default.
	if c.Opacity != 1 {
		opacity := c.Opacity
		out.Opacity = &opacity
	}
	if t := c.Transform; t != nil {
		out.Transform = &Transform{
			Rotate: &Rotate{Angle: t.Rotate},
			Skew:   &Skew{X: t.SkewX, Y: t.SkewY},
			Flip:   &Flip{Horizontal: t.FlipHorizontal, Vertical: t.FlipVertical},
		}
	}
	if t := c.Transition; t != nil {
		out.Transition = &Transition{In: t.In, Out: t.Out}
	}
	return out
}

func encodeAsset(a edit.Asset) Asset {
	switch asset := a.(type) {
	case *edit.VideoAsset:
		return Asset{
			Type:         string(edit.KindVideo),
			Src:          asset.Source,
			Trim:         copyFloat(asset.Trim),
			Volume:       copyFloat(asset.Volume),
			VolumeEffect: asset.VolumeEffect,
			Crop:         encodeCrop(asset.Crop),
		}
	case *edit.ImageAsset:
		return Asset{Type: string(edit.KindImage), Src: asset.Source, Crop: encodeCrop(asset.Crop)}
	case *edit.TitleAsset:
		return Asset{
			Type:       string(edit.KindTitle),
			Text:       asset.Text,
			Style:      asset.Style,
			Color:      asset.Color,
			Size:       asset.Size,
			Background: asset.Background,
			Position:   string(asset.Position),
			Offset:     encodeOffset(asset.Offset),
		}
	default:
		return Asset{}
	}
}

func decodeClip(c Clip) (*edit.Clip, error) {
	asset, err := decodeAsset(c.Asset)
	if err != nil {
		return nil, err
	}
	pos, err := decodePosition(c.Position)
	if err != nil {
		return nil, err
	}
	out := &edit.Clip{
		Asset:    asset,
		Start:    c.Start,
		Length:   c.Length,
		Effect:   c.Effect,
		Filter:   c.Filter,
		Opacity:  1,
		Scale:    copyFloat(c.Scale),
		Position: pos,
		Offset:   decodeOffset(c.Offset),
	}
	if c.Opacity != nil {
		out.Opacity = *c.Opacity
	}
	if t := c.Transform; t != nil {
		transform := &edit.Transform{}
		if t.Rotate != nil {
			transform.Rotate = t.Rotate.Angle
		}
		if t.Skew != nil {
			transform.SkewX, transform.SkewY = t.Skew.X, t.Skew.Y
		}
		if t.Flip != nil {
			transform.FlipHorizontal, transform.FlipVertical = t.Flip.Horizontal, t.Flip.Vertical
		}
		out.Transform = transform
	}
	if t := c.Transition; t != nil {
		out.Transition = &edit.Transition{In: t.In, Out: t.Out}
	}
	return out, nil
}

func decodeAsset(a Asset) (edit.Asset, error) {
	switch edit.AssetKind(a.Type) {
	case edit.KindVideo:
		return &edit.VideoAsset{
			Source:       a.Src,
			Trim:         copyFloat(a.Trim),
			Volume:       copyFloat(a.Volume),
			VolumeEffect: a.VolumeEffect,
			Crop:         decodeCrop(a.Crop),
		}, nil
	case edit.KindImage:
		return &edit.ImageAsset{Source: a.Src, Crop: decodeCrop(a.Crop)}, nil
	case edit.KindTitle:
		pos, err := decodePosition(a.Position)
		if err != nil {
			return nil, err
		}
		return &edit.TitleAsset{
			Text:       a.Text,
			Style:      a.Style,
			Color:      a.Color,
			Size:       a.Size,
			Background: a.Background,
			Position:   pos,
			Offset:     decodeOffset(a.Offset),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown asset type %q", edit.ErrInvalidValue, a.Type)
	}
}

func decodePosition(value string) (edit.Position, error) {
	if value == "" {
		return "", nil
	}
	pos, ok := edit.ParsePosition(value)
	if !ok {
		return "", fmt.Errorf("%w: unknown position %q", edit.ErrInvalidValue, value)
	}
	return pos, nil
}

func encodeSoundtrack(st *edit.Soundtrack) *Soundtrack {
	if st == nil {
		return nil
	}
	return &Soundtrack{Src: st.Source, Effect: st.Effect, Volume: copyFloat(st.Volume)}
}

func encodeOutput(o edit.Output) Output {
	out := Output{
		Format:      o.Format,
		Resolution:  o.Resolution,
		AspectRatio: o.AspectRatio,
		FPS:         copyFloat(o.FPS),
		Quality:     o.Quality,
		Repeat:      copyBool(o.Repeat),
		Mute:        copyBool(o.Mute),
	}
	if o.Poster != nil {
		out.Poster = &Poster{Capture: o.Poster.Capture}
	}
	if o.Thumbnail != nil {
		out.Thumbnail = &Thumbnail{Capture: o.Thumbnail.Capture, Scale: o.Thumbnail.Scale}
	}
	return out
}

func decodeOutput(o Output) edit.Output {
	out := edit.Output{
		Format:      o.Format,
		Resolution:  o.Resolution,
		AspectRatio: o.AspectRatio,
		FPS:         copyFloat(o.FPS),
		Quality:     o.Quality,
		Repeat:      copyBool(o.Repeat),
		Mute:        copyBool(o.Mute),
	}
	if o.Poster != nil {
		out.Poster = &edit.Poster{Capture: o.Poster.Capture}
	}
	if o.Thumbnail != nil {
		out.Thumbnail = &edit.Thumbnail{Capture: o.Thumbnail.Capture, Scale: o.Thumbnail.Scale}
	}
	return out
}

func encodeCrop(c *edit.Crop) *Crop {
	if c == nil {
		return nil
	}
	return &Crop{Top: c.Top, Bottom: c.Bottom, Left: c.Left, Right: c.Right}
}

func decodeCrop(c *Crop) *edit.Crop {
	if c == nil {
		return nil
	}
	return &edit.Crop{Top: c.Top, Bottom: c.Bottom, Left: c.Left, Right: c.Right}
}

func encodeOffset(o *edit.Offset) *Offset {
	if o == nil {
		return nil
	}
	return &Offset{X: o.X, Y: o.Y}
}

func decodeOffset(o *Offset) *edit.Offset {
	if o == nil {
		return nil
	}
	return &edit.Offset{X: o.X, Y: o.Y}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
