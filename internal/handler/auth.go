package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler { return &AuthHandler{Auth: a} }

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, err := h.Auth.Register(ctx, in); err != nil {
		return respondError(c, err, "Server error during registration")
	}
	return message(c, http.StatusCreated, "User registered successfully")
}

// Login handles POST /login and returns the session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sess, err := h.Auth.Login(ctx, in.Username, in.Password)
	if err != nil {
		return respondError(c, err, "Server error during login")
	}
	return c.JSON(http.StatusOK, sess)
}
