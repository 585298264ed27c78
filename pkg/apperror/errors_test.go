package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"strefex/pkg/apperror"
)

func TestKindOf(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		err := apperror.NotFound("project")
		require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		require.Equal(t, "project not found", err.Error())
	})

	t.Run("wrapped app error", func(t *testing.T) {
		err := fmt.Errorf("handling request: %w", apperror.AuthorizationDenied("insufficient permissions"))
		require.Equal(t, apperror.KindAuthorizationDenied, apperror.KindOf(err))
	})

	t.Run("plain error", func(t *testing.T) {
		require.Equal(t, apperror.Kind(""), apperror.KindOf(errors.New("boom")))
	})
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperror.AuthenticationFailed("invalid credentials"), http.StatusUnauthorized},
		{apperror.AuthorizationDenied("insufficient permissions"), http.StatusForbidden},
		{apperror.NotFound("asset"), http.StatusNotFound},
		{apperror.ValidationFailed("invalid email address"), http.StatusBadRequest},
		{apperror.Conflict("email already registered"), http.StatusConflict},
		{apperror.UpstreamUnavailable("payment provider not configured"), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		require.Equal(t, tc.status, apperror.HTTPStatus(tc.err), tc.err.Error())
	}
}
