package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/service"
)

// PointHandler serves /points.
type PointHandler struct {
	Points *service.PointService
}

func NewPointHandler(p *service.PointService) *PointHandler { return &PointHandler{Points: p} }

// List handles GET /points.
func (h *PointHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	points, err := h.Points.List(ctx)
	if err != nil {
		return respondError(c, err, "Server error fetching points")
	}
	return c.JSON(http.StatusOK, points)
}

// Create handles POST /points.
func (h *PointHandler) Create(c echo.Context) error {
	var in service.PointInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Points.Create(ctx, in)
	if err != nil {
		return respondError(c, err, "Server error - could not add point")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Point %s added successfully", p.Name),
		"id":      p.ID,
	})
}

// Update handles PUT /points/:id.
func (h *PointHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	var in service.PointInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Points.Update(ctx, id, in)
	if err != nil {
		return respondError(c, err, "Server error - could not update point")
	}
	return message(c, http.StatusOK, fmt.Sprintf("Point %s updated successfully", p.Name))
}

// Delete handles DELETE /points/:id.
func (h *PointHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Points.Delete(ctx, id); err != nil {
		return respondError(c, err, "Server error - could not delete point")
	}
	return message(c, http.StatusOK, "Point deleted successfully")
}
