package handler // handler exposes the planner engine over HTTP

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/floorplan-seat-planner/internal/geometry"
	"github.com/iliyamo/floorplan-seat-planner/internal/model"
	"github.com/iliyamo/floorplan-seat-planner/internal/repository"
	"github.com/iliyamo/floorplan-seat-planner/internal/service"
)

// PlannerHandler serves the seat, company, report and export endpoints.
type PlannerHandler struct {
	Engine *service.Engine
	Log    zerolog.Logger
}

// NewPlannerHandler panics if engine is nil.
func NewPlannerHandler(engine *service.Engine, log zerolog.Logger) *PlannerHandler {
	if engine == nil {
		panic("nil engine passed to NewPlannerHandler")
	}
	return &PlannerHandler{Engine: engine, Log: log}
}

type seatResponse struct {
	ID           uint64           `json:"id"`
	Category     model.Category   `json:"category"`
	CategoryCode string           `json:"category_code"`
	Shape        model.Shape      `json:"shape"`
	X            float64          `json:"x"`
	Y            float64          `json:"y"`
	Size         float64          `json:"size"`
	Points       []geometry.Point `json:"points,omitempty"`
	CompanyID    *string          `json:"company_id"`
	Occupied     bool             `json:"occupied"`
}

type companyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func toSeatResponse(s model.Seat) seatResponse {
	return seatResponse{
		ID:           s.ID,
		Category:     s.Category,
		CategoryCode: s.Category.Info().Code,
		Shape:        s.Shape,
		X:            s.X,
		Y:            s.Y,
		Size:         s.Size,
		Points:       s.Points,
		CompanyID:    s.CompanyID,
		Occupied:     s.Occupied,
	}
}

func toSeatResponses(seats []model.Seat) []seatResponse {
	out := make([]seatResponse, 0, len(seats))
	for _, s := range seats {
		out = append(out, toSeatResponse(s))
	}
	return out
}

func toCompanyResponse(c model.Company) companyResponse {
	return companyResponse{ID: c.ID, Name: c.Name, Color: c.Color}
}

type createCompanyRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Color string `json:"color" validate:"required,iscolor"`
}

type renameCompanyRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type assignRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
}

// ListSeats handles GET /v1/seats.
func (h *PlannerHandler) ListSeats(c echo.Context) error {
	return c.JSON(http.StatusOK, toSeatResponses(h.Engine.Seats()))
}

// GetSeat handles GET /v1/seats/:id.
func (h *PlannerHandler) GetSeat(c echo.Context) error {
	id, err := parseSeatID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seat, err := h.Engine.Seat(id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResponse(*seat))
}

// HitTest handles GET /v1/seats/hit?x=&y=.  It returns the first seat under
// the point with its hover tooltip, or 404 when the point is empty floor.
func (h *PlannerHandler) HitTest(c echo.Context) error {
	x, errX := strconv.ParseFloat(c.QueryParam("x"), 64)
	y, errY := strconv.ParseFloat(c.QueryParam("y"), 64)
	if errX != nil || errY != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "x and y must be numbers"})
	}
	seat, ok := h.Engine.HitTest(x, y)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no seat at point"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seat":    toSeatResponse(*seat),
		"tooltip": service.Tooltip(*seat),
	})
}

// AssignSeat handles PUT /v1/seats/:id/assignment with {"company_id": ...}.
func (h *PlannerHandler) AssignSeat(c echo.Context) error {
	id, err := parseSeatID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body assignRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return h.writeError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Engine.Assign(ctx, id, body.CompanyID); err != nil {
		return h.writeError(c, err)
	}
	seat, err := h.Engine.Seat(id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResponse(*seat))
}

// UnassignSeat handles DELETE /v1/seats/:id/assignment.  Freeing a free seat
// succeeds.
func (h *PlannerHandler) UnassignSeat(c echo.Context) error {
	id, err := parseSeatID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.Unassign(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCompanies handles GET /v1/companies.
func (h *PlannerHandler) ListCompanies(c echo.Context) error {
	companies := h.Engine.Companies()
	out := make([]companyResponse, 0, len(companies))
	for _, co := range companies {
		out = append(out, toCompanyResponse(co))
	}
	return c.JSON(http.StatusOK, out)
}

// GetCompany handles GET /v1/companies/:id.
func (h *PlannerHandler) GetCompany(c echo.Context) error {
	co, err := h.Engine.Company(c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCompanyResponse(*co))
}

// CreateCompany handles POST /v1/companies with {"name", "color"}.
func (h *PlannerHandler) CreateCompany(c echo.Context) error {
	var body createCompanyRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return h.writeError(c, err)
	}
	co, err := h.Engine.AddCompany(c.Request().Context(), body.Name, body.Color)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toCompanyResponse(co))
}

// RenameCompany handles PATCH /v1/companies/:id with {"name"}.
func (h *PlannerHandler) RenameCompany(c echo.Context) error {
	var body renameCompanyRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return h.writeError(c, err)
	}
	co, err := h.Engine.RenameCompany(c.Request().Context(), c.Param("id"), body.Name)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCompanyResponse(co))
}

// DeleteCompany handles DELETE /v1/companies/:id.  When the company holds
// seats the request must carry ?confirm=true; otherwise 409 is returned with
// the number of seats that would be released.
func (h *PlannerHandler) DeleteCompany(c echo.Context) error {
	released, err := h.Engine.DeleteCompanyCascade(c.Request().Context(), c.Param("id"), confirmed(c))
	var ce *service.ConfirmationError
	if errors.As(err, &ce) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "confirmation required",
			"affected_seats": ce.Affected,
		})
	}
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"released_seats": released})
}

// CompanySeats handles GET /v1/companies/:id/seats.
func (h *PlannerHandler) CompanySeats(c echo.Context) error {
	seats, err := h.Engine.SeatsByCompany(c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// Palette handles GET /v1/companies/palette.
func (h *PlannerHandler) Palette(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"colors": h.Engine.AvailableColors()})
}

// ClearState handles DELETE /v1/state.  It always requires ?confirm=true.
func (h *PlannerHandler) ClearState(c echo.Context) error {
	if !confirmed(c) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "confirmation required",
			"affected_seats": h.Engine.OverallSummary().GrandTotal.Occupied,
		})
	}
	if err := h.Engine.ClearAll(c.Request().Context()); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CompanyReport handles GET /v1/reports/companies.
func (h *PlannerHandler) CompanyReport(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.PerCompanySummary())
}

// OverallReport handles GET /v1/reports/overall.
func (h *PlannerHandler) OverallReport(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.OverallSummary())
}

// Render handles GET /v1/render.
func (h *PlannerHandler) Render(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Render())
}

// Export handles GET /v1/export.
func (h *PlannerHandler) Export(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Export())
}

// writeError maps engine and registry errors to status codes.  Unexpected
// errors are logged and reported without detail.
func (h *PlannerHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicateName), errors.Is(err, repository.ErrDuplicateColor):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPersist):
		h.Log.Error().Err(err).Str("path", c.Path()).Msg("change not saved")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save changes"})
	default:
		h.Log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func parseSeatID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func confirmed(c echo.Context) bool {
	v, err := strconv.ParseBool(c.QueryParam("confirm"))
	return err == nil && v
}
