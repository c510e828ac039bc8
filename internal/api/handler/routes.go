package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/importing"
	"github.com/vfg2006/campaign-dashboard-api/pkg/middleware"
)

func Healthcheck(service dashboarding.Dashboarder) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/api/health",
			Method:  http.MethodGet,
			Handler: GetHealth(service),
		},
	}
}

func Dashboard(service dashboarding.Dashboarder) []router.Route {
	return []router.Route{
		{
			Path:    "/api/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
	}
}

func Upload(importer importing.Importer, service dashboarding.Dashboarder, maxBytes int64) []router.Route {
	return []router.Route{
		{
			Path:    "/api/upload",
			Method:  http.MethodPost,
			Handler: UploadCSV(importer, service, maxBytes),
		},
		{
			Path:    "/api/upload/manual",
			Method:  http.MethodPost,
			Handler: UploadManual(importer, service, maxBytes),
		},
	}
}

func Debug(service dashboarding.Dashboarder, refresher TokenRefresher, apiKey string) []router.Route {
	return []router.Route{
		{
			Path:        "/api/debug/connection",
			Method:      http.MethodGet,
			Handler:     GetConnection(service, refresher),
			Middlewares: []func(http.Handler) http.Handler{middleware.DebugAuth(apiKey)},
		},
		{
			Path:        "/api/debug/token/refresh",
			Method:      http.MethodPost,
			Handler:     RefreshToken(refresher),
			Middlewares: []func(http.Handler) http.Handler{middleware.DebugAuth(apiKey)},
		},
	}
}
