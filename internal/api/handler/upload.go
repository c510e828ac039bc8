package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/campaign-dashboard-api/internal/usecases/importing"
	"github.com/vfg2006/campaign-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-dashboard-api/pkg/log"
)

// UploadCSV parses {csvData, dataType} and answers with the uploaded
// records merged into a fresh dashboard payload.
func UploadCSV(importer importing.Importer, dashboard dashboarding.Dashboarder, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req domain.UploadRequest
		if !decodeBody(w, r, maxBytes, &req) {
			return
		}

		if strings.TrimSpace(req.CSVData) == "" {
			logger.Warn("upload: request without csvData")
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "csvData is required",
				[]string{"send the CSV text in the csvData field"})
			return
		}

		uploaded, err := importer.ParseCSV(req.CSVData, req.DataType)
		if err != nil {
			writeParseError(w, r, err)
			return
		}

		respondUploaded(w, r, dashboard, uploaded, "CSV")
	})
}

// UploadManual accepts campaigns typed into the manual entry form.
func UploadManual(importer importing.Importer, dashboard dashboarding.Dashboarder, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ManualEntryRequest
		if !decodeBody(w, r, maxBytes, &req) {
			return
		}

		uploaded, err := importer.ParseManual(req.Campaigns)
		if err != nil {
			writeParseError(w, r, err)
			return
		}

		respondUploaded(w, r, dashboard, uploaded, "manual")
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	logger := log.ForContext(r.Context()).WithField("error", err.Error())

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("upload: request body too large")
		apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Request body too large",
			[]string{fmt.Sprintf("uploads are limited to %d bytes", tooLarge.Limit)})
		return false
	}

	logger.Warn("upload: invalid request body")
	apiErr := apiErrors.FromError(errors.Wrap(err, "invalid JSON body"), apiErrors.ErrInvalidRequest)
	apiErrors.WriteError(w, apiErr.Code, "Invalid request body", []string{apiErr.Error})
	return false
}

func writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithField("error", err.Error())

	var parseErr *importing.ParseError
	if errors.As(err, &parseErr) {
		logger.Warn("upload: rejected")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, parseErr.Message, parseErr.Details)
		return
	}

	logger.Error("upload: unexpected failure")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Upload could not be processed", []string{err.Error()})
}

func respondUploaded(w http.ResponseWriter, r *http.Request, dashboard dashboarding.Dashboarder, uploaded *domain.UploadedData, source string) {
	payload := dashboard.MergeUploaded(r.Context(), uploaded)
	count := uploaded.RecordCount()

	log.ForContext(r.Context()).WithFields(log.Fields{
		"records": count,
		"kind":    uploaded.Kind,
		"source":  source,
	}).Info("upload: accepted")

	writeJSON(w, http.StatusOK, domain.UploadResponse{
		Success:     true,
		Message:     fmt.Sprintf("Imported %d %s", count, recordNoun(uploaded.Kind)),
		Data:        payload,
		RecordCount: count,
	})
}

func recordNoun(kind domain.DataKind) string {
	if kind == domain.DataKindTrends {
		return "trend points"
	}
	return "campaigns"
}
