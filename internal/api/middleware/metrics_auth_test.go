package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/config"
)

func serveMetrics(cfg config.MetricsConfig, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/metrics", func(c echo.Context) error {
		return c.String(http.StatusOK, "metrics")
	}, MetricsBasicAuth(cfg))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestMetricsBasicAuth(t *testing.T) {
	enabled := config.MetricsConfig{User: "testuser", Password: "testpass"}

	tests := []struct {
		name       string
		cfg        config.MetricsConfig
		authHeader string
		wantStatus int
	}{
		{"認証設定なしは素通し", config.MetricsConfig{}, "", http.StatusOK},
		{"ユーザーのみ設定は素通し", config.MetricsConfig{User: "testuser"}, "", http.StatusOK},
		{"正しい認証情報", enabled, basic("testuser", "testpass"), http.StatusOK},
		{"間違った認証情報", enabled, basic("wronguser", "wrongpass"), http.StatusUnauthorized},
		{"認証ヘッダーなし", enabled, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveMetrics(tt.cfg, tt.authHeader)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "metrics", rec.Body.String())
			}
		})
	}
}
