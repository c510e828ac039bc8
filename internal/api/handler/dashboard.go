package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/campaign-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetDashboard always answers 200. An unusable period falls back to the
// default and every upstream problem is reported inside the payload.
func GetDashboard(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		raw := r.URL.Query().Get("period")
		period, err := domain.ParsePeriod(raw)
		if err != nil {
			logger.WithFields(log.Fields{
				"period": raw,
				"error":  err.Error(),
			}).Warn("dashboard: invalid period, using default")
		}

		payload := service.GetDashboard(r.Context(), period)
		if payload == nil {
			payload = domain.NewEmptyPayload()
		}

		writeJSON(w, http.StatusOK, payload)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("failed to encode response")
	}
}
