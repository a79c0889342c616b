package model

import "fmt"

// Category classifies a seat.  The set is closed.
type Category string

const (
	CategoryManagerial Category = "MANAGERIAL"
	CategoryPizza      Category = "PIZZA"
	CategoryStandard   Category = "STANDARD"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryManagerial, CategoryPizza, CategoryStandard}

// CategoryInfo carries everything the presentation layers need for a
// category: the stored code, the table heading, the row label and the
// stroke style used when drawing the seat outline.
type CategoryInfo struct {
	Code        string  // value written to the persisted blob
	Heading     string  // upper-case column heading in exported tables
	Label       string  // title-case label for the summary rows
	StrokeColor string  // outline colour on the canvas
	LineWidth   float64 // outline width on the canvas
}

var categoryTable = map[Category]CategoryInfo{
	CategoryManagerial: {Code: "GERENCIAL", Heading: "GERENCIAL", Label: "Gerencial", StrokeColor: "#2c3e50", LineWidth: 3},
	CategoryPizza:      {Code: "PIZZAS", Heading: "PIZZAS", Label: "Pizzas", StrokeColor: "#e74c3c", LineWidth: 2},
	CategoryStandard:   {Code: "ESTÁNDAR", Heading: "ESTÁNDAR", Label: "Estándar", StrokeColor: "#95a5a6", LineWidth: 1},
}

// Info returns the presentation table entry for c.  Unknown categories get
// a zero-width outline.
func (c Category) Info() CategoryInfo {
	return categoryTable[c]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// ParseCategoryCode maps a stored code (GERENCIAL, PIZZAS, ESTÁNDAR) back to
// its Category.  The unaccented ESTANDAR is accepted as well.
func ParseCategoryCode(code string) (Category, error) {
	for c, info := range categoryTable {
		if info.Code == code {
			return c, nil
		}
	}
	if code == "ESTANDAR" {
		return CategoryStandard, nil
	}
	return "", fmt.Errorf("unknown seat category %q", code)
}

// Shape is the drawing primitive used for a seat.
type Shape string

const (
	ShapeRect     Shape = "rect"
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
	ShapePolygon  Shape = "polygon"
)

// ParseShape validates a stored shape name.
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeRect, ShapeCircle, ShapeTriangle, ShapePolygon:
		return Shape(s), nil
	}
	return "", fmt.Errorf("unknown seat shape %q", s)
}
