package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/middleware"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/service"
)

// LogHandler serves /logs.  The acting user always comes from the verified
// identity placed on the context by middleware.Authenticate.
type LogHandler struct {
	Logs *service.LogService
}

func NewLogHandler(l *service.LogService) *LogHandler { return &LogHandler{Logs: l} }

// List handles GET /logs.
func (h *LogHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Logs.ListRecent(ctx)
	if err != nil {
		return respondError(c, err, "Server error fetching logs")
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /logs/:id.
func (h *LogHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	e, err := h.Logs.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "Server error fetching log")
	}
	return c.JSON(http.StatusOK, e)
}

// Create handles POST /logs.
func (h *LogHandler) Create(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return message(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	var in service.LogInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	l, err := h.Logs.Create(ctx, actor, in)
	if err != nil {
		return respondError(c, err, "Server error - could not add log")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Recycling log added successfully", "id": l.ID})
}

// Update handles PUT /logs/:id.
func (h *LogHandler) Update(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return message(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	var in service.LogInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, err := h.Logs.Update(ctx, actor, id, in); err != nil {
		return respondError(c, err, "Server error - could not update log")
	}
	return message(c, http.StatusOK, "Log updated successfully")
}

// Delete handles DELETE /logs/:id.
func (h *LogHandler) Delete(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return message(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	id, ok := parseID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Logs.Delete(ctx, actor, id); err != nil {
		return respondError(c, err, "Server error - could not delete log")
	}
	return message(c, http.StatusOK, "Log deleted successfully")
}
