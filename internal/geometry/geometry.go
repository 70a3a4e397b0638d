// Package geometry computes overlay placement coordinates.
package geometry

import "fmt"

// Anchor is a named reference corner/point from which an overlay's
// offset is measured.
type Anchor string

const (
	TopLeft     Anchor = "top-left"
	TopRight    Anchor = "top-right"
	BottomLeft  Anchor = "bottom-left"
	BottomRight Anchor = "bottom-right"
	Center      Anchor = "center"
)

// Anchors lists the supported anchor names in display order.
var Anchors = []Anchor{TopLeft, TopRight, BottomLeft, BottomRight, Center}

// ParseAnchor validates an anchor name.
func ParseAnchor(s string) (Anchor, error) {
	for _, a := range Anchors {
		if s == string(a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown anchor %q (use one of %v)", s, Anchors)
}

// Resolve returns the top-left pixel coordinate at which to place
// content of size contentW x contentH on a base of size baseW x baseH.
// Offsets push the content inward from the anchor corner; for Center
// they act as a plain translation. The result is not clamped: oversized
// content or large offsets may land partially or fully off canvas.
func Resolve(a Anchor, baseW, baseH, contentW, contentH, offX, offY int) (int, int) {
	switch a {
	case TopLeft:
		return offX, offY
	case TopRight:
		return baseW - contentW - offX, offY
	case BottomLeft:
		return offX, baseH - contentH - offY
	case BottomRight:
		return baseW - contentW - offX, baseH - contentH - offY
	case Center:
		return (baseW-contentW)/2 + offX, (baseH-contentH)/2 + offY
	default:
		return offX, offY
	}
}

// InBounds reports whether a placement of the given size lies entirely
// within the base canvas.
func InBounds(x, y, contentW, contentH, baseW, baseH int) bool {
	return x >= 0 && y >= 0 && x+contentW <= baseW && y+contentH <= baseH
}
