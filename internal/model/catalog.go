package model

import "github.com/iliyamo/floorplan-seat-planner/internal/geometry"

// DefaultSeats returns the built-in floor plan catalog.  Every call returns
// a fresh slice with all seats unassigned.
func DefaultSeats() []Seat {
	return []Seat{
		{ID: 1, Category: CategoryManagerial, Shape: ShapeRect, X: 100, Y: 80, Size: 20},
		{ID: 2, Category: CategoryManagerial, Shape: ShapeRect, X: 160, Y: 80, Size: 20},
		{ID: 3, Category: CategoryManagerial, Shape: ShapeRect, X: 220, Y: 80, Size: 20},
		{ID: 4, Category: CategoryPizza, Shape: ShapeCircle, X: 100, Y: 150, Size: 18},
		{ID: 5, Category: CategoryPizza, Shape: ShapeCircle, X: 100, Y: 150, Size: 18},
		{ID: 6, Category: CategoryPizza, Shape: ShapeCircle, X: 220, Y: 150, Size: 18},
		{ID: 7, Category: CategoryStandard, Shape: ShapeTriangle, X: 121, Y: 250, Size: 16},
		{ID: 8, Category: CategoryStandard, Shape: ShapeTriangle, X: 122, Y: 252, Size: 16},
		{ID: 9, Category: CategoryStandard, Shape: ShapeTriangle, X: 220, Y: 220, Size: 16},
		{
			ID:       10,
			Category: CategoryStandard,
			Shape:    ShapePolygon,
			Points: []geometry.Point{
				{X: 300, Y: 180},
				{X: 320, Y: 170},
				{X: 340, Y: 180},
				{X: 340, Y: 200},
				{X: 320, Y: 210},
				{X: 300, Y: 200},
			},
		},
	}
}

// Palette is the list of suggested company colours offered by the UI.
var Palette = []string{
	"#1f78b4", "#33a02c", "#e31a1c", "#ff7f00",
	"#6a3d9a", "#b15928", "#ffff99", "#a6cee3",
}
