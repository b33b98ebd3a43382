package edit

import (
	"fmt"
	"regexp"
	"strings"
)

// Soundtrack is the timeline background audio.
type Soundtrack struct {
	Source string
	Effect string
	Volume *float64
}

// Timeline holds global timeline settings.
type Timeline struct {
	Background string
	Soundtrack *Soundtrack
}

// Poster selects the frame used as poster image.
type Poster struct {
	Capture float64
}

// Thumbnail selects the frame used as thumbnail image.
type Thumbnail struct {
	Capture float64
	Scale   float64
}

// Output holds render output settings.
type Output struct {
	Format      string
	Resolution  string
	AspectRatio string
	FPS         *float64
	Quality     string
	Repeat      *bool
	Mute        *bool
	Poster      *Poster
	Thumbnail   *Thumbnail
}

// Track is one render layer. Projects produce one clip per track.
type Track struct {
	Clips []*Clip
}

// Project is the edit session aggregate.
type Project struct {
	Timeline  Timeline
	Output    Output
	Media     *Registry
	Subtitles *Registry
	Texts     *Registry
}

const (
	DefaultBackground = "#000000"
	DefaultFormat     = "mp4"
	DefaultResolution = "sd"
)

// NewProject returns an empty project with a black background and mp4/sd output.
func NewProject() *Project {
	return &Project{
		Timeline:  Timeline{Background: DefaultBackground},
		Output:    Output{Format: DefaultFormat, Resolution: DefaultResolution},
		Media:     NewRegistry(RegistryMedia),
		Subtitles: NewRegistry(RegistrySubtitle),
		Texts:     NewRegistry(RegistryText),
	}
}

// Registry returns the registry of the given kind, or nil.
func (p *Project) Registry(kind RegistryKind) *Registry {
	switch kind {
	case RegistryMedia:
		return p.Media
	case RegistrySubtitle:
		return p.Subtitles
	case RegistryText:
		return p.Texts
	default:
		return nil
	}
}

// GetOrNull returns the named clip of a registry, or nil when absent.
func (p *Project) GetOrNull(kind RegistryKind, name string) *Clip {
	reg := p.Registry(kind)
	if reg == nil {
		return nil
	}
	return reg.Get(name)
}

// Upsert stores a clip in a registry. See Registry.Upsert.
func (p *Project) Upsert(kind RegistryKind, name string, clip *Clip) (UpsertOutcome, error) {
	reg := p.Registry(kind)
	if reg == nil {
		return 0, fmt.Errorf("%w: unknown registry %q", ErrInvalidValue, kind)
	}
	return reg.Upsert(name, clip), nil
}

// Reorder moves a registry entry one layer. See Registry.Reorder.
func (p *Project) Reorder(kind RegistryKind, name string, dir Direction) (ReorderOutcome, error) {
	reg := p.Registry(kind)
	if reg == nil {
		return 0, fmt.Errorf("%w: unknown registry %q", ErrInvalidValue, kind)
	}
	return reg.Reorder(name, dir), nil
}

// Tracks lays the registries out as render tracks: text, then subtitles, then
// video and image clips, each in registry order with one clip per track.
func (p *Project) Tracks() []Track {
	tracks := make([]Track, 0, p.Texts.Len()+p.Subtitles.Len()+p.Media.Len())
	for _, reg := range []*Registry{p.Texts, p.Subtitles, p.Media} {
		for _, entry := range reg.Entries() {
			tracks = append(tracks, Track{Clips: []*Clip{entry.Clip}})
		}
	}
	return tracks
}

// ClipCount returns the total number of clips across registries.
func (p *Project) ClipCount() int {
	return p.Texts.Len() + p.Subtitles.Len() + p.Media.Len()
}

// Snapshot returns a deep copy that shares no state with p.
func (p *Project) Snapshot() *Project {
	out := &Project{
		Timeline:  Timeline{Background: p.Timeline.Background},
		Output:    p.Output,
		Media:     p.Media.Clone(),
		Subtitles: p.Subtitles.Clone(),
		Texts:     p.Texts.Clone(),
	}
	if st := p.Timeline.Soundtrack; st != nil {
		copyST := *st
		copyST.Volume = cloneFloat(st.Volume)
		out.Timeline.Soundtrack = &copyST
	}
	out.Output.FPS = cloneFloat(p.Output.FPS)
	out.Output.Repeat = cloneBool(p.Output.Repeat)
	out.Output.Mute = cloneBool(p.Output.Mute)
	if p.Output.Poster != nil {
		poster := *p.Output.Poster
		out.Output.Poster = &poster
	}
	if p.Output.Thumbnail != nil {
		thumb := *p.Output.Thumbnail
		out.Output.Thumbnail = &thumb
	}
	return out
}

// SetBackground sets the timeline background color.
func (p *Project) SetBackground(color string) error {
	if err := ValidateColor(color); err != nil {
		return err
	}
	p.Timeline.Background = color
	return nil
}

// SetSoundtrack replaces the soundtrack with source, clearing effect and volume.
func (p *Project) SetSoundtrack(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: soundtrack url is empty", ErrInvalidValue)
	}
	p.Timeline.Soundtrack = &Soundtrack{Source: source}
	return nil
}

// SetFPS sets the output frame rate.
func (p *Project) SetFPS(fps float64) error {
	if err := positive("fps", fps); err != nil {
		return err
	}
	p.Output.FPS = &fps
	return nil
}

// SetPoster captures the poster frame at seconds.
func (p *Project) SetPoster(seconds float64) error {
	if err := nonNegative("poster capture", seconds); err != nil {
		return err
	}
	p.Output.Poster = &Poster{Capture: seconds}
	return nil
}

// SetThumbnail captures the thumbnail frame at seconds at full scale.
func (p *Project) SetThumbnail(seconds float64) error {
	if err := nonNegative("thumbnail capture", seconds); err != nil {
		return err
	}
	p.Output.Thumbnail = &Thumbnail{Capture: seconds, Scale: 1.0}
	return nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor accepts #RGB, #RRGGBB, and #RRGGBBAA hex colors.
func ValidateColor(color string) error {
	if !hexColor.MatchString(color) {
		return fmt.Errorf("%w: color must be hex #RGB, #RRGGBB or #RRGGBBAA, got %q", ErrInvalidValue, color)
	}
	return nil
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
