package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/service"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{&service.Error{Kind: service.ErrUnauthenticated, Message: "Invalid credentials"}, http.StatusUnauthorized, "Invalid credentials"},
		{&service.Error{Kind: service.ErrForbidden, Message: "nope"}, http.StatusForbidden, "nope"},
		{&service.Error{Kind: service.ErrInvalidInput, Message: "bad"}, http.StatusBadRequest, "bad"},
		{&service.Error{Kind: service.ErrNotFound, Message: "gone"}, http.StatusNotFound, "gone"},
		{&service.Error{Kind: service.ErrConflict, Message: "in use"}, http.StatusConflict, "in use"},
		{errors.New("dial tcp 10.0.0.5:3306: connection refused"), http.StatusInternalServerError, "Server error"},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := respondError(c, tc.err, "Server error"); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tc.code || !strings.Contains(rec.Body.String(), `"message":"`+tc.body+`"`) {
			t.Errorf("%v: %d %s", tc.err, rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "10.0.0.5") {
			t.Error("internal detail leaked to the client")
		}
	}
}

func TestParseID(t *testing.T) {
	e := echo.New()
	for raw, ok := range map[string]bool{"1": true, "42": true, "0": false, "-3": false, "abc": false, "": false} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if _, got := parseID(c); got != ok {
			t.Errorf("parseID(%q) ok = %v", raw, got)
		}
	}
}
