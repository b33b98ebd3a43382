package edit

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidValue reports a field value outside its documented range.
	ErrInvalidValue = errors.New("invalid value")
	// ErrWrongVariant reports a field that does not apply to the clip's asset variant.
	ErrWrongVariant = errors.New("field does not apply to asset variant")
)

// Transform holds the rotate, skew, and flip adjustments of a clip.
type Transform struct {
	Rotate         int
	SkewX          float64
	SkewY          float64
	FlipHorizontal bool
	FlipVertical   bool
}

// Transition holds the in and out transition effects of a clip.
type Transition struct {
	In  string
	Out string
}

// Edge selects which side of a clip a transition applies to.
type Edge string

const (
	EdgeIn  Edge = "in"
	EdgeOut Edge = "out"
)

// Clip is a timed placement of one asset.
type Clip struct {
	Asset      Asset
	Start      float64
	Length     float64
	Effect     string
	Filter     string
	Opacity    float64
	Scale      *float64
	Position   Position
	Offset     *Offset
	Transform  *Transform
	Transition *Transition
}

// NewClip places asset at start for length seconds with full opacity.
func NewClip(asset Asset, start, length float64) (*Clip, error) {
	if asset == nil {
		return nil, fmt.Errorf("%w: clip requires an asset", ErrInvalidValue)
	}
	if err := validateTiming(start, length); err != nil {
		return nil, err
	}
	return &Clip{Asset: asset, Start: start, Length: length, Opacity: 1}, nil
}

// Clone returns a deep copy of the clip.
func (c *Clip) Clone() *Clip {
	if c == nil {
		return nil
	}
	out := *c
	if c.Asset != nil {
		out.Asset = c.Asset.cloneAsset()
	}
	out.Scale = cloneFloat(c.Scale)
	if c.Offset != nil {
		offset := *c.Offset
		out.Offset = &offset
	}
	if c.Transform != nil {
		transform := *c.Transform
		out.Transform = &transform
	}
	if c.Transition != nil {
		transition := *c.Transition
		out.Transition = &transition
	}
	return &out
}

// SameTiming reports whether the clip already occupies start/length.
func (c *Clip) SameTiming(start, length float64) bool {
	return c.Start == start && c.Length == length
}

// SetTiming replaces the start and length of the clip.
func (c *Clip) SetTiming(start, length float64) error {
	if err := validateTiming(start, length); err != nil {
		return err
	}
	c.Start, c.Length = start, length
	return nil
}

// SetOpacity sets the clip opacity in [0,1].
func (c *Clip) SetOpacity(value float64) error {
	if err := inRange("opacity", value, 0, 1); err != nil {
		return err
	}
	c.Opacity = value
	return nil
}

// SetScale sets the viewport scale factor, which must be positive.
func (c *Clip) SetScale(value float64) error {
	if err := positive("scale", value); err != nil {
		return err
	}
	c.Scale = &value
	return nil
}

// SetRotate sets the rotation angle in degrees within [-360,360].
func (c *Clip) SetRotate(degrees int) error {
	if degrees < -360 || degrees > 360 {
		return fmt.Errorf("%w: rotate angle must be between -360 and 360, got %d", ErrInvalidValue, degrees)
	}
	c.transform().Rotate = degrees
	return nil
}

// SetSkew sets the skew along both axes, each within [0,3].
func (c *Clip) SetSkew(x, y float64) error {
	if err := inRange("skew x", x, 0, 3); err != nil {
		return err
	}
	if err := inRange("skew y", y, 0, 3); err != nil {
		return err
	}
	t := c.transform()
	t.SkewX, t.SkewY = x, y
	return nil
}

// SetFlip sets the horizontal and vertical flip flags.
func (c *Clip) SetFlip(horizontal, vertical bool) {
	t := c.transform()
	t.FlipHorizontal, t.FlipVertical = horizontal, vertical
}

// SetTransition replaces the clip transition with effect on the given edge.
// The other edge is cleared.
func (c *Clip) SetTransition(effect string, edge Edge) error {
	switch edge {
	case EdgeIn:
		c.Transition = &Transition{In: effect}
	case EdgeOut:
		c.Transition = &Transition{Out: effect}
	default:
		return fmt.Errorf("%w: transition edge must be in or out, got %q", ErrInvalidValue, edge)
	}
	return nil
}

// SetPosition anchors the element. Title assets carry their own position;
// video and image clips are positioned at clip level.
func (c *Clip) SetPosition(pos Position) {
	if title, ok := c.Asset.(*TitleAsset); ok {
		title.Position = pos
		return
	}
	c.Position = pos
}

// SetOffset shifts the element from its anchor. Title offsets live on the asset.
func (c *Clip) SetOffset(x, y float64) error {
	if err := inRange("offset x", x, -10, 10); err != nil {
		return err
	}
	if err := inRange("offset y", y, -10, 10); err != nil {
		return err
	}
	if title, ok := c.Asset.(*TitleAsset); ok {
		title.Offset = &Offset{X: x, Y: y}
		return nil
	}
	c.Offset = &Offset{X: x, Y: y}
	return nil
}

// Title returns the title asset or ErrWrongVariant.
func (c *Clip) Title() (*TitleAsset, error) {
	if title, ok := c.Asset.(*TitleAsset); ok {
		return title, nil
	}
	return nil, c.wrongVariant("title")
}

// Video returns the video asset or ErrWrongVariant.
func (c *Clip) Video() (*VideoAsset, error) {
	if video, ok := c.Asset.(*VideoAsset); ok {
		return video, nil
	}
	return nil, c.wrongVariant("video")
}

// SetCrop trims the asset edges. Only video and image assets can be cropped.
func (c *Clip) SetCrop(crop Crop) error {
	edges := []struct {
		label string
		value float64
	}{
		{"crop top", crop.Top},
		{"crop bottom", crop.Bottom},
		{"crop left", crop.Left},
		{"crop right", crop.Right},
	}
	for _, edge := range edges {
		if err := inRange(edge.label, edge.value, 0, 1); err != nil {
			return err
		}
	}
	switch asset := c.Asset.(type) {
	case *VideoAsset:
		asset.Crop = &crop
	case *ImageAsset:
		asset.Crop = &crop
	default:
		return c.wrongVariant("video or image")
	}
	return nil
}

// SetVolume sets the video volume in [0,1].
func (c *Clip) SetVolume(value float64) error {
	video, err := c.Video()
	if err != nil {
		return err
	}
	if err := inRange("volume", value, 0, 1); err != nil {
		return err
	}
	video.Volume = &value
	return nil
}

// SetVolumeEffect sets the video volume effect (fadeIn, fadeOut, fadeInFadeOut).
func (c *Clip) SetVolumeEffect(effect string) error {
	video, err := c.Video()
	if err != nil {
		return err
	}
	video.VolumeEffect = effect
	return nil
}

// SetTrim skips the first seconds of the video source.
func (c *Clip) SetTrim(seconds float64) error {
	video, err := c.Video()
	if err != nil {
		return err
	}
	if err := nonNegative("trim", seconds); err != nil {
		return err
	}
	video.Trim = &seconds
	return nil
}

func (c *Clip) transform() *Transform {
	if c.Transform == nil {
		c.Transform = &Transform{}
	}
	return c.Transform
}

func (c *Clip) wrongVariant(want string) error {
	kind := AssetKind("none")
	if c.Asset != nil {
		kind = c.Asset.Kind()
	}
	return fmt.Errorf("%w: requires %s asset, clip holds %s", ErrWrongVariant, want, kind)
}

func validateTiming(start, length float64) error {
	if math.IsNaN(start) || math.IsInf(start, 0) || start < 0 {
		return fmt.Errorf("%w: start must be >= 0, got %v", ErrInvalidValue, start)
	}
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return fmt.Errorf("%w: length must be greater than 0, got %v", ErrInvalidValue, length)
	}
	return nil
}

func positive(label string, value float64) error {
	if !finite(value) || value <= 0 {
		return fmt.Errorf("%w: %s must be greater than 0, got %v", ErrInvalidValue, label, value)
	}
	return nil
}

func nonNegative(label string, value float64) error {
	if !finite(value) || value < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidValue, label, value)
	}
	return nil
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func inRange(label string, value, lo, hi float64) error {
	if !finite(value) || value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %v and %v, got %v", ErrInvalidValue, label, lo, hi, value)
	}
	return nil
}
