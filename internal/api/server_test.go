package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding/mocks"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/importing"
)

func TestNewHandler_CorsAndRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDashboard := mocks.NewMockDashboarder(ctrl)
	mockDashboard.EXPECT().IsAuthenticated().Return(false)

	cfg := &config.Config{
		Cors:   config.Cors{AllowedOrigins: []string{"http://localhost:5173"}},
		Upload: config.Upload{MaxBytes: 1 << 20},
	}
	h := NewHandler(cfg, mockDashboard, importing.NewService(nil), nil)

	preflight := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}
