// Package geometry holds the hit-test primitives used to resolve a click on
// the floor plan into a seat.  All functions are pure.
package geometry

import "math"

// HitTolerance is added to half the seat size when hit-testing the
// circle-like shapes so that small seats are easy to click.
const HitTolerance = 5.0

// edgeEpsilon guards the crossing test against horizontal edges.  Points
// within roughly this distance of such an edge may be misclassified.
const edgeEpsilon = 0.00001

// Point is a position in canvas pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointInPolygon reports whether (px, py) lies inside the polygon using ray
// casting.  Each edge crossed by a horizontal ray from the point toggles the
// result, so an odd number of crossings means inside.
func PointInPolygon(points []Point, px, py float64) bool {
	inside := false
	for i, j := 0, len(points)-1; i < len(points); j, i = i, i+1 {
		xi, yi := points[i].X, points[i].Y
		xj, yj := points[j].X, points[j].Y

		if (yi > py) != (yj > py) &&
			px < (xj-xi)*(py-yi)/(yj-yi+edgeEpsilon)+xi {
			inside = !inside
		}
	}
	return inside
}

// HitRadius returns the click radius for a shape of the given size.
func HitRadius(size float64) float64 {
	return size/2 + HitTolerance
}

// PointInCircle reports whether (px, py) is within HitRadius(size) of the
// centre (cx, cy).  Rectangles and triangles are tested this way too.
func PointInCircle(cx, cy, size, px, py float64) bool {
	dx := px - cx
	dy := py - cy
	return math.Sqrt(dx*dx+dy*dy) <= HitRadius(size)
}
