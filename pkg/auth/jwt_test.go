package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/bookbridge/exchange-service/pkg/auth"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	cfg := auth.Config{Secret: "test-secret", TTL: time.Hour}

	okHandler := func(c echo.Context) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]int64{"userId": userID})
	}

	token, err := auth.NewToken(cfg, 42)
	require.NoError(t, err)

	expired, err := auth.NewToken(auth.Config{Secret: cfg.Secret, TTL: -time.Hour}, 42)
	require.NoError(t, err)

	foreign, err := auth.NewToken(auth.Config{Secret: "other-secret", TTL: time.Hour}, 42)
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "ok",
			header:       "Bearer " + token,
			expectedCode: http.StatusOK,
			expectedBody: `{"userId":42}`,
		},
		{
			name:         "no header",
			header:       "",
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"No Authorization Header"}`,
		},
		{
			name:         "no bearer prefix",
			header:       token,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"Invalid Authorization Header"}`,
		},
		{
			name:         "expired token",
			header:       "Bearer " + expired,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"Invalid Token"}`,
		},
		{
			name:         "wrong signature",
			header:       "Bearer " + foreign,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"Invalid Token"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.GET("/private", okHandler, auth.Middleware(cfg))

			r := httptest.NewRequest(http.MethodGet, "/private", http.NoBody)
			if tt.header != "" {
				r.Header.Set(auth.AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestCallerIDMissing(t *testing.T) {
	t.Parallel()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), httptest.NewRecorder())
	_, err := auth.CallerID(c)
	require.Error(t, err)
}
