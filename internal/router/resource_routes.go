package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/authz"
)

// RegisterResources registers points, materials and logs.  Reads need any
// valid session; point and material writes need the admin role.  Log writes
// need a session and the handler enforces owner-or-admin.
func RegisterResources(e *echo.Echo, d Deps) {
	user := d.route(authz.Authenticated)
	admin := d.route(authz.AdminOnly)

	// ---- Drop-off points ----
	e.GET("/points", d.Points.List, user...)
	e.POST("/points", d.Points.Create, admin...)
	e.PUT("/points/:id", d.Points.Update, admin...)
	e.DELETE("/points/:id", d.Points.Delete, admin...)

	// ---- Material types ----
	e.GET("/materials", d.Materials.List, user...)
	e.GET("/types", d.Materials.List, user...) // older clients
	e.POST("/materials", d.Materials.Create, admin...)
	e.PUT("/materials/:id", d.Materials.Update, admin...)
	e.DELETE("/materials/:id", d.Materials.Delete, admin...)

	// ---- Recycling logs ----
	e.GET("/logs", d.Logs.List, user...)
	e.GET("/logs/:id", d.Logs.Get, user...)
	e.POST("/logs", d.Logs.Create, user...)
	e.PUT("/logs/:id", d.Logs.Update, user...)
	e.DELETE("/logs/:id", d.Logs.Delete, user...)
}
