// Package geometry resolves folder positions on a canvas: clamping, drag
// offsets and drop-target detection. Everything here is pure.
package geometry

import (
	"math"

	"tableflip.dev/finder/pkg/folder"
)

// Size is the extent of a box on the canvas.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultNodeSize is the box occupied by a folder icon and its label.
var DefaultNodeSize = Size{Width: 80, Height: 80}

// Contains reports whether p lies inside the box anchored at origin. Edges
// are inclusive.
func Contains(origin folder.Position, size Size, p folder.Position) bool {
	return p.X >= origin.X && p.X <= origin.X+size.Width &&
		p.Y >= origin.Y && p.Y <= origin.Y+size.Height
}

// FindDropTarget returns the first sibling whose box contains candidate, or
// nil. When icons overlap more than one sibling can match; the first one in
// iteration order wins. Callers are expected to leave the dragged node out of
// siblings.
func FindDropTarget(candidate folder.Position, siblings []*folder.Node, size Size) *folder.Node {
	for _, s := range siblings {
		if s == nil {
			continue
		}
		if Contains(s.Position, size, candidate) {
			return s
		}
	}
	return nil
}

// ClampToCanvas pulls p onto the canvas. Negative coordinates become zero.
// The upper bound is applied only for positive bounds dimensions; a zero
// bounds value leaves that axis unbounded. The result is always finite: +Inf
// lands on the upper bound, or on zero when the axis is unbounded.
func ClampToCanvas(p folder.Position, bounds Size) folder.Position {
	return folder.Position{
		X: clamp(p.X, bounds.Width),
		Y: clamp(p.Y, bounds.Height),
	}
}

func clamp(v, upper float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) && upper <= 0 {
		return 0
	}
	if upper > 0 && v > upper {
		return upper
	}
	return v
}

// ApplyDrag returns origin moved by offset. Non-finite offsets count as zero,
// independently per axis.
func ApplyDrag(origin, offset folder.Position) folder.Position {
	return folder.Position{
		X: origin.X + finite(offset.X),
		Y: origin.Y + finite(offset.Y),
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Without returns nodes minus the node with the given id.
func Without(nodes []*folder.Node, id string) []*folder.Node {
	out := make([]*folder.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil && n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
