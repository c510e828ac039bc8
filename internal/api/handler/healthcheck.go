package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding"
)

// HealthResponse reports liveness and whether a usable token is cached.
// It never calls the upstream.
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Authenticated bool      `json:"authenticated"`
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(time.Now().String()))
		if err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}

func GetHealth(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:        "ok",
			Timestamp:     time.Now().UTC(),
			Authenticated: service.IsAuthenticated(),
		})
	})
}
