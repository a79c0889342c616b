package service

import (
	"fmt"

	"github.com/iliyamo/floorplan-seat-planner/internal/geometry"
	"github.com/iliyamo/floorplan-seat-planner/internal/model"
)

// FreeSeatFill is the fill colour of unassigned seats.
const FreeSeatFill = "#ffffff"

// DrawOp names a drawing primitive understood by the canvas.
type DrawOp string

const (
	OpClear      DrawOp = "clear"
	OpFillRect   DrawOp = "fill_rect"
	OpStrokeRect DrawOp = "stroke_rect"
	OpFillArc    DrawOp = "fill_arc"
	OpStrokeArc  DrawOp = "stroke_arc"
	OpFillPath   DrawOp = "fill_path"
	OpStrokePath DrawOp = "stroke_path"
)

// DrawCommand is one primitive.  Rect ops use X, Y, W, H (top-left corner);
// arc ops use X, Y as the centre and R; path ops use Points as a closed
// outline.
type DrawCommand struct {
	Op        DrawOp           `json:"op"`
	SeatID    uint64           `json:"seat_id,omitempty"`
	Fill      string           `json:"fill,omitempty"`
	Stroke    string           `json:"stroke,omitempty"`
	LineWidth float64          `json:"line_width,omitempty"`
	X         float64          `json:"x,omitempty"`
	Y         float64          `json:"y,omitempty"`
	W         float64          `json:"w,omitempty"`
	H         float64          `json:"h,omitempty"`
	R         float64          `json:"r,omitempty"`
	Points    []geometry.Point `json:"points,omitempty"`
}

// Render projects the registries into draw commands.  The list starts
// with a clear and then draws each seat in catalog order, fill first.
func Render(seats []model.Seat, companies []model.Company) []DrawCommand {
	colors := make(map[string]string, len(companies))
	for _, c := range companies {
		colors[c.ID] = c.Color
	}

	out := make([]DrawCommand, 0, 1+2*len(seats))
	out = append(out, DrawCommand{Op: OpClear})
	for _, s := range seats {
		fill := FreeSeatFill
		if s.Occupied && s.CompanyID != nil {
			if c, ok := colors[*s.CompanyID]; ok {
				fill = c
			}
		}
		info := s.Category.Info()
		fillCmd := DrawCommand{SeatID: s.ID, Fill: fill}
		strokeCmd := DrawCommand{SeatID: s.ID, Stroke: info.StrokeColor, LineWidth: info.LineWidth}

		switch s.Shape {
		case model.ShapeRect:
			half := s.Size / 2
			for _, cmd := range []*DrawCommand{&fillCmd, &strokeCmd} {
				cmd.X, cmd.Y, cmd.W, cmd.H = s.X-half, s.Y-half, s.Size, s.Size
			}
			fillCmd.Op, strokeCmd.Op = OpFillRect, OpStrokeRect
		case model.ShapeCircle:
			for _, cmd := range []*DrawCommand{&fillCmd, &strokeCmd} {
				cmd.X, cmd.Y, cmd.R = s.X, s.Y, s.Size/2
			}
			fillCmd.Op, strokeCmd.Op = OpFillArc, OpStrokeArc
		case model.ShapeTriangle:
			half := s.Size / 2
			pts := []geometry.Point{
				{X: s.X, Y: s.Y - half},
				{X: s.X - half, Y: s.Y + half},
				{X: s.X + half, Y: s.Y + half},
			}
			fillCmd.Points, strokeCmd.Points = pts, pts
			fillCmd.Op, strokeCmd.Op = OpFillPath, OpStrokePath
		case model.ShapePolygon:
			if len(s.Points) == 0 {
				continue
			}
			pts := make([]geometry.Point, len(s.Points))
			copy(pts, s.Points)
			fillCmd.Points, strokeCmd.Points = pts, pts
			fillCmd.Op, strokeCmd.Op = OpFillPath, OpStrokePath
		default:
			continue
		}
		out = append(out, fillCmd, strokeCmd)
	}
	return out
}

// Render draws the current state.
func (e *Engine) Render() []DrawCommand {
	seats, companies := e.snapshot()
	return Render(seats, companies)
}

// Tooltip is the hover text for a seat, e.g. "GERENCIAL - ID: 1 (Ocupado)".
func Tooltip(s model.Seat) string {
	status := "Disponible"
	if s.Occupied {
		status = "Ocupado"
	}
	return fmt.Sprintf("%s - ID: %d (%s)", s.Category.Info().Code, s.ID, status)
}
