package edit

// AssetKind discriminates the asset variants.
type AssetKind string

const (
	KindVideo AssetKind = "video"
	KindImage AssetKind = "image"
	KindTitle AssetKind = "title"
)

// Asset is the raw content a Clip places on the timeline. The concrete type is
// one of *VideoAsset, *ImageAsset, or *TitleAsset.
type Asset interface {
	Kind() AssetKind
	cloneAsset() Asset
}

// Crop trims asset edges by a fraction of the asset size.
type Crop struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Offset shifts an element relative to its anchor position.
type Offset struct {
	X float64
	Y float64
}

// VideoAsset is a video file referenced by URL.
type VideoAsset struct {
	Source       string
	Trim         *float64
	Volume       *float64
	VolumeEffect string
	Crop         *Crop
}

// ImageAsset is an image file referenced by URL.
type ImageAsset struct {
	Source string
	Crop   *Crop
}

// TitleAsset is on-screen text, used for both titles and subtitles.
type TitleAsset struct {
	Text       string
	Style      string
	Color      string
	Size       string
	Background string
	Position   Position
	Offset     *Offset
}

func (*VideoAsset) Kind() AssetKind { return KindVideo }
func (*ImageAsset) Kind() AssetKind { return KindImage }
func (*TitleAsset) Kind() AssetKind { return KindTitle }

func (a *VideoAsset) cloneAsset() Asset {
	out := *a
	out.Trim = cloneFloat(a.Trim)
	out.Volume = cloneFloat(a.Volume)
	if a.Crop != nil {
		crop := *a.Crop
		out.Crop = &crop
	}
	return &out
}

func (a *ImageAsset) cloneAsset() Asset {
	out := *a
	if a.Crop != nil {
		crop := *a.Crop
		out.Crop = &crop
	}
	return &out
}

func (a *TitleAsset) cloneAsset() Asset {
	out := *a
	if a.Offset != nil {
		offset := *a.Offset
		out.Offset = &offset
	}
	return &out
}

// NewTextAsset returns a title asset with the on-screen text preset.
func NewTextAsset(text string) *TitleAsset {
	return &TitleAsset{Text: text, Style: "minimal", Size: "x-large"}
}

// NewSubtitleAsset returns a title asset with the subtitle preset.
func NewSubtitleAsset(text string) *TitleAsset {
	return &TitleAsset{Text: text, Style: "subtitle", Size: "medium", Position: PositionBottom}
}

// NewVideoAsset returns a video asset for the source URL.
func NewVideoAsset(source string) *VideoAsset {
	return &VideoAsset{Source: source}
}

// NewImageAsset returns an image asset for the source URL.
func NewImageAsset(source string) *ImageAsset {
	return &ImageAsset{Source: source}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
