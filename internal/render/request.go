package render

// Edit is the render request document.
type Edit struct {
	Timeline Timeline `json:"timeline"`
	Output   Output   `json:"output"`
}

// Timeline carries the background, soundtrack, and tracks.
type Timeline struct {
	Background string      `json:"background,omitempty"`
	Soundtrack *Soundtrack `json:"soundtrack,omitempty"`
	Tracks     []Track     `json:"tracks"`
}

// Soundtrack is the background audio of the timeline.
type Soundtrack struct {
	Src    string   `json:"src"`
	Effect string   `json:"effect,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
}

// Track is one layer; the first track is drawn on top.
type Track struct {
	Clips []Clip `json:"clips"`
}

// Clip places an asset on a track.
type Clip struct {
	Asset      Asset       `json:"asset"`
	Start      float64     `json:"start"`
	Length     float64     `json:"length"`
	Effect     string      `json:"effect,omitempty"`
	Filter     string      `json:"filter,omitempty"`
	Opacity    *float64    `json:"opacity,omitempty"`
	Scale      *float64    `json:"scale,omitempty"`
	Position   string      `json:"position,omitempty"`
	Offset     *Offset     `json:"offset,omitempty"`
	Transform  *Transform  `json:"transform,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
}

// Asset is the tagged asset union; Type is video, image, or title.
type Asset struct {
	Type         string   `json:"type"`
	Src          string   `json:"src,omitempty"`
	Trim         *float64 `json:"trim,omitempty"`
	Volume       *float64 `json:"volume,omitempty"`
	VolumeEffect string   `json:"volumeEffect,omitempty"`
	Crop         *Crop    `json:"crop,omitempty"`
	Text         string   `json:"text,omitempty"`
	Style        string   `json:"style,omitempty"`
	Color        string   `json:"color,omitempty"`
	Size         string   `json:"size,omitempty"`
	Background   string   `json:"background,omitempty"`
	Position     string   `json:"position,omitempty"`
	Offset       *Offset  `json:"offset,omitempty"`
}

// Crop trims asset edges by fraction.
type Crop struct {
	Top    float64 `json:"top,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
	Right  float64 `json:"right,omitempty"`
}

// Offset shifts an element from its anchor.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform groups rotate, skew, and flip.
type Transform struct {
	Rotate *Rotate `json:"rotate,omitempty"`
	Skew   *Skew   `json:"skew,omitempty"`
	Flip   *Flip   `json:"flip,omitempty"`
}

type Rotate struct {
	Angle int `json:"angle"`
}

type Skew struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Flip struct {
	Horizontal bool `json:"horizontal"`
	Vertical   bool `json:"vertical"`
}

// Transition names the in and out transition effects.
type Transition struct {
	In  string `json:"in,omitempty"`
	Out string `json:"out,omitempty"`
}

// Output carries the render output settings.
type Output struct {
	Format      string     `json:"format"`
	Resolution  string     `json:"resolution,omitempty"`
	AspectRatio string     `json:"aspectRatio,omitempty"`
	FPS         *float64   `json:"fps,omitempty"`
	Quality     string     `json:"quality,omitempty"`
	Repeat      *bool      `json:"repeat,omitempty"`
	Mute        *bool      `json:"mute,omitempty"`
	Poster      *Poster    `json:"poster,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
}

type Poster struct {
	Capture float64 `json:"capture"`
}

type Thumbnail struct {
	Capture float64 `json:"capture"`
	Scale   float64 `json:"scale"`
}
