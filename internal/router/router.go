package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/floorplan-seat-planner/internal/handler"
)

// RegisterRoutes registers routes that sit outside the versioned API.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPlanner mounts the planner API under /v1.  mws run on every
// planner route in the order given; main passes the rate limiter and the
// response cache here.
func RegisterPlanner(e *echo.Echo, p *handler.PlannerHandler, mws ...echo.MiddlewareFunc) {
	if e.Validator == nil {
		e.Validator = handler.NewRequestValidator()
	}
	g := e.Group("/v1", mws...)

	// Seats.  The static /hit route wins over /:id.
	g.GET("/seats", p.ListSeats)
	g.GET("/seats/hit", p.HitTest)
	g.GET("/seats/:id", p.GetSeat)
	g.PUT("/seats/:id/assignment", p.AssignSeat)
	g.DELETE("/seats/:id/assignment", p.UnassignSeat)

	// Companies
	g.GET("/companies", p.ListCompanies)
	g.POST("/companies", p.CreateCompany)
	g.GET("/companies/palette", p.Palette)
	g.GET("/companies/:id", p.GetCompany)
	g.PATCH("/companies/:id", p.RenameCompany)
	g.DELETE("/companies/:id", p.DeleteCompany)
	g.GET("/companies/:id/seats", p.CompanySeats)

	// Whole plan
	g.DELETE("/state", p.ClearState)
	g.GET("/reports/companies", p.CompanyReport)
	g.GET("/reports/overall", p.OverallReport)
	g.GET("/render", p.Render)
	g.GET("/export", p.Export)
}
