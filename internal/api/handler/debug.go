package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/campaign-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-dashboard-api/pkg/log"
)

// TokenRefresher forces a new token exchange and reports the scheduler state.
type TokenRefresher interface {
	TriggerManualSync(ctx context.Context) *domain.AuthResult
	GetStatus() map[string]any
}

type connectionResponse struct {
	domain.ConnectionDiagnostics
	Warmup map[string]any `json:"warmup,omitempty"`
}

// GetConnection serves the in-memory connection diagnostics.
func GetConnection(service dashboarding.Dashboarder, refresher TokenRefresher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := connectionResponse{ConnectionDiagnostics: service.Diagnostics()}
		if refresher != nil {
			resp.Warmup = refresher.GetStatus()
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// RefreshToken drops the cached token and authenticates again.
func RefreshToken(refresher TokenRefresher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("debug: token refresh requested")

		if refresher == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Token warm-up service not available", nil)
			return
		}

		result := refresher.TriggerManualSync(r.Context())
		if result == nil {
			writeJSON(w, http.StatusAccepted, map[string]any{
				"message": "token refresh already in progress",
			})
			return
		}

		if !result.Authenticated {
			logger.WithField("error", result.Reason).Warn("debug: token refresh failed")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, "Token refresh failed", []string{result.Reason})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":       "token refreshed",
			"authenticated": true,
			"manualToken":   result.ManualToken,
		})
	})
}
