// Package layout places nodes on the canvas. Functions here are pure and
// never touch undo history.
package layout

import (
	"math"

	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
)

// Viewport is the drawable area plus the margins kept free around the ring
type Viewport struct {
	Width   float64
	Height  float64
	MarginX float64
	MarginY float64
}

// Circular spreads ids evenly on a circle centered in the viewport,
// starting at angle zero and going clockwise in screen coordinates.
// A single node sits at the center. Connections are accepted for parity
// with other layouts and do not influence placement.
func Circular(ids []valueobjects.NodeID, _ []entities.Connection, vp Viewport) map[valueobjects.NodeID]valueobjects.Position {
	positions := make(map[valueobjects.NodeID]valueobjects.Position, len(ids))
	n := len(ids)
	if n == 0 {
		return positions
	}

	cx, cy := vp.Width/2, vp.Height/2
	if n == 1 {
		positions[ids[0]] = valueobjects.Position{X: cx, Y: cy}
		return positions
	}

	radius := math.Min((vp.Width-2*vp.MarginX)/2, (vp.Height-2*vp.MarginY)/2)
	if radius < 0 {
		radius = 0
	}
	for i, id := range ids {
		angle := float64(i) / float64(n) * 2 * math.Pi
		positions[id] = valueobjects.Position{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
	return positions
}
