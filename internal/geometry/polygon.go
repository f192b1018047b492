// Package geometry provides the planar helpers used to turn detected logo polygons
// into area and placement measurements.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a vertex in image pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered list of vertices. Detected logos are quadrilaterals listed
// top-left, top-right, bottom-right, bottom-left.
type Polygon []Point

// ring converts the polygon into a closed orb ring.
func (p Polygon) ring() orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, v := range p {
		r = append(r, orb.Point{v.X, v.Y})
	}
	if len(r) > 0 && !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

// PolygonArea returns the shoelace area of a simple polygon.
// The result does not depend on winding order and is zero for degenerate input.
func PolygonArea(p Polygon) float64 {
	if len(p) < 3 {
		return 0
	}
	return math.Abs(planar.Area(orb.Polygon{p.ring()}))
}

// Extent returns the width and height of the polygon's axis-aligned bounding box.
func Extent(p Polygon) (float64, float64) {
	if len(p) == 0 {
		return 0, 0
	}
	b := p.ring().Bound()
	return b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]
}
