package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"strefex/pkg/logger"
)

func TestMiddlewareLogsAndPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(logger.Middleware(zap.NewNop()))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pong", rec.Body.String())
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	require.NotNil(t, logger.FromContext(c))

	scoped := zap.NewNop().With(zap.String("request_id", "r-1"))
	c.Set("logger", scoped)
	require.Same(t, scoped, logger.FromContext(c))
}
