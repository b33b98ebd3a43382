package edit

import "strings"

// Position is one of the nine screen anchors.
type Position string

const (
	PositionTop         Position = "top"
	PositionTopRight    Position = "topRight"
	PositionRight       Position = "right"
	PositionBottomRight Position = "bottomRight"
	PositionBottom      Position = "bottom"
	PositionBottomLeft  Position = "bottomLeft"
	PositionLeft        Position = "left"
	PositionTopLeft     Position = "topLeft"
	PositionCenter      Position = "center"
)

var allPositions = []Position{
	PositionTop,
	PositionTopRight,
	PositionRight,
	PositionBottomRight,
	PositionBottom,
	PositionBottomLeft,
	PositionLeft,
	PositionTopLeft,
	PositionCenter,
}

// Positions returns the anchors in canonical order.
func Positions() []Position {
	out := make([]Position, len(allPositions))
	copy(out, allPositions)
	return out
}

// ParsePosition matches value against the anchors, ignoring case, spaces,
// hyphens, and underscores ("top right" and "top_right" both yield topRight).
func ParsePosition(value string) (Position, bool) {
	key := normalizeAnchor(value)
	if key == "" {
		return "", false
	}
	for _, pos := range allPositions {
		if normalizeAnchor(string(pos)) == key {
			return pos, true
		}
	}
	return "", false
}

func normalizeAnchor(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
