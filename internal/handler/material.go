package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/service"
)

// MaterialHandler serves /materials and the legacy /types listing.
type MaterialHandler struct {
	Materials *service.MaterialService
}

func NewMaterialHandler(m *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{Materials: m}
}

// List handles GET /materials and GET /types.
func (h *MaterialHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Materials.List(ctx)
	if err != nil {
		return respondError(c, err, "Server error fetching materials")
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /materials.
func (h *MaterialHandler) Create(c echo.Context) error {
	var in service.MaterialInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	m, err := h.Materials.Create(ctx, in)
	if err != nil {
		return respondError(c, err, "Server error adding material")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Material added successfully", "id": m.ID})
}

// Update handles PUT /materials/:id.
func (h *MaterialHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	var in service.MaterialInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, err := h.Materials.Update(ctx, id, in); err != nil {
		return respondError(c, err, "Server error updating material")
	}
	return message(c, http.StatusOK, "Material updated successfully")
}

// Delete handles DELETE /materials/:id.
func (h *MaterialHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Materials.Delete(ctx, id); err != nil {
		return respondError(c, err, "Server error deleting material")
	}
	return message(c, http.StatusOK, "Material deleted successfully")
}
