package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"patientrecords/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newContext builds an echo context for an authenticated request on hubID.
func newContext(hubID uuid.UUID, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(common.WithSession(context.Background(), uuid.New(), hubID, nil))

	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func htmx(c echo.Context, target string) echo.Context {
	c.Request().Header.Set("HX-Request", "true")
	if target != "" {
		c.Request().Header.Set("HX-Target", target)
	}
	return c
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) View {
	t.Helper()
	var v View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}
