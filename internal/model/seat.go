package model

import "github.com/iliyamo/floorplan-seat-planner/internal/geometry"

// Seat describes a fixed position on the floor plan that can be assigned
// to a company.  Seats are identified by a positive integer ID and never
// change category or shape once the catalog is built.
//
// Fields:
//
//	ID        – catalog identifier.
//	Category  – MANAGERIAL, PIZZA or STANDARD.
//	Shape     – rect, circle, triangle or polygon.
//	X, Y      – centre of rect/circle/triangle seats.
//	Size      – width/diameter of rect/circle/triangle seats.
//	Points    – outline of polygon seats (at least three points).
//	CompanyID – owning company, nil when free.
//	Occupied  – mirrors CompanyID != nil.
type Seat struct {
	ID        uint64
	Category  Category
	Shape     Shape
	X         float64
	Y         float64
	Size      float64
	Points    []geometry.Point
	CompanyID *string
	Occupied  bool
}

// Contains reports whether the canvas point (px, py) hits the seat.
// Polygon seats use a ray cast whose edge crossings are computed with a
// 1e-5 epsilon in the divisor, so points on or very near an edge may fall
// either way.  Every other shape is treated as a circle of radius Size/2
// plus the click tolerance.
func (s *Seat) Contains(px, py float64) bool {
	switch s.Shape {
	case ShapeRect, ShapeCircle, ShapeTriangle:
		return geometry.PointInCircle(s.X, s.Y, s.Size, px, py)
	case ShapePolygon:
		if len(s.Points) == 0 {
			return false
		}
		return geometry.PointInPolygon(s.Points, px, py)
	}
	return false
}

// AssignTo binds the seat to companyID and marks it occupied.
func (s *Seat) AssignTo(companyID string) {
	id := companyID
	s.CompanyID = &id
	s.Occupied = true
}

// Release clears the assignment.
func (s *Seat) Release() {
	s.CompanyID = nil
	s.Occupied = false
}

// AssignedTo reports whether the seat is held by companyID.
func (s *Seat) AssignedTo(companyID string) bool {
	return s.CompanyID != nil && *s.CompanyID == companyID
}

// Clone returns a deep copy so callers can keep snapshots that do not
// alias the registry.
func (s Seat) Clone() Seat {
	out := s
	if s.Points != nil {
		out.Points = make([]geometry.Point, len(s.Points))
		copy(out.Points, s.Points)
	}
	if s.CompanyID != nil {
		id := *s.CompanyID
		out.CompanyID = &id
	}
	return out
}
