package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/authz"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/handler"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/middleware"
)

// Deps carries everything the routes need.  Limiter may be nil.
type Deps struct {
	Verifier       middleware.Verifier
	Limiter        echo.MiddlewareFunc
	AllowedOrigins []string
	DB             handler.Pinger

	Auth      *handler.AuthHandler
	Points    *handler.PointHandler
	Materials *handler.MaterialHandler
	Logs      *handler.LogHandler
}

// route builds the middleware chain for one route: its declared
// requirement first, then the rate limiter so buckets can be keyed by the
// authenticated user.
func (d Deps) route(req authz.Requirement) []echo.MiddlewareFunc {
	chain := middleware.Require(d.Verifier, req)
	if d.Limiter != nil {
		chain = append(chain, d.Limiter)
	}
	return chain
}

// Setup installs the global middleware on e and registers every route.
func Setup(e *echo.Echo, d Deps) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Warnf("%s %s %d %s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.CORS(d.AllowedOrigins))

	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d)
	RegisterResources(e, d)
}

// RegisterRoutes registers non-authenticated infrastructure routes.
// At the moment it only exposes a health check endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the public registration and login endpoints.
func RegisterAuth(e *echo.Echo, d Deps) {
	e.POST("/register", d.Auth.Register, d.route(authz.Public)...)
	e.POST("/login", d.Auth.Login, d.route(authz.Public)...)
}
