package importing

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/pkg/utils"
)

// Importer turns uploaded CSV text or manual form entries into dashboard records.
type Importer interface {
	ParseCSV(csvData string, dataType string) (*domain.UploadedData, error)
	ParseManual(entries []domain.ManualCampaignEntry) (*domain.UploadedData, error)
}

type Service struct {
	now func() time.Time
}

func NewService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{now: now}
}

// ParseCSV reads csvData with a header row. dataType may be "campaigns" or
// "trends"; when empty it is inferred from the headers.
func (s *Service) ParseCSV(csvData string, dataType string) (*domain.UploadedData, error) {
	if strings.TrimSpace(csvData) == "" {
		return nil, newParseError("CSV data is empty", "csvData must contain a header row and at least one data row")
	}

	records, err := readRecords(csvData)
	if err != nil {
		return nil, newParseError("CSV could not be read", err.Error())
	}
	if len(records) < 2 {
		return nil, newParseError("CSV has no data rows", "expected a header row followed by at least one data row")
	}

	idx := indexHeaders(records[0])

	kind, err := resolveKind(dataType, idx)
	if err != nil {
		return nil, err
	}

	var uploaded *domain.UploadedData
	switch kind {
	case domain.DataKindTrends:
		uploaded, err = s.parseTrends(idx, records[1:])
	default:
		uploaded, err = s.parseCampaigns(idx, records[1:])
	}
	if err != nil {
		return nil, err
	}

	uploaded.Source = domain.ProvenanceCSV

	logrus.WithFields(logrus.Fields{
		"kind":    uploaded.Kind,
		"records": uploaded.RecordCount(),
	}).Info("upload: CSV parsed")

	return uploaded, nil
}

func readRecords(csvData string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(csvData))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func resolveKind(dataType string, idx columnIndex) (domain.DataKind, error) {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "campaign", "campaigns":
		return domain.DataKindCampaigns, nil
	case "trend", "trends":
		return domain.DataKindTrends, nil
	case "":
	default:
		return "", newParseError("unknown dataType", `dataType must be "campaigns" or "trends", got "`+dataType+`"`)
	}

	switch {
	case idx.has(colName) || idx.has(colSent):
		return domain.DataKindCampaigns, nil
	case idx.has(colDate) && (idx.has(colOpened) || idx.has(colClicked)):
		return domain.DataKindTrends, nil
	}
	return "", newParseError("could not detect the data type",
		"expected campaign columns (name, sent, opened, clicked) or trend columns (date, opens, clicks)")
}

func (s *Service) parseCampaigns(idx columnIndex, rows [][]string) (*domain.UploadedData, error) {
	var missing []string
	if !idx.has(colName) {
		missing = append(missing, "missing column: name (also Campaign, Campaign Name, Email Name)")
	}
	if !idx.has(colSent) {
		missing = append(missing, "missing column: sent (also Total Sent, Recipients)")
	}
	if len(missing) > 0 {
		return nil, &ParseError{Message: "CSV is missing required campaign columns", Details: missing}
	}

	uploaded := &domain.UploadedData{
		Kind:         domain.DataKindCampaigns,
		Campaigns:    make([]domain.Campaign, 0, len(rows)),
		HasDelivered: idx.has(colDelivered),
	}

	var errs problems
	for i, record := range rows {
		line := i + 2
		row := rowReader{idx: idx, record: record, line: line, errs: &errs}

		name := row.text(colName)
		if name == "" {
			errs.addf("row %d: name is empty", line)
		}

		campaign := domain.Campaign{
			ID:      row.text(colID),
			Name:    name,
			Sent:    row.count(colSent),
			Opened:  row.count(colOpened),
			Clicked: row.count(colClicked),
			Bounced: row.count(colBounced),
		}
		date, hasDate := row.date(colDate)
		if hasDate {
			campaign.Date = utils.FormatDate(date)
		}
		campaign.Status = s.status(row.text(colStatus), date, hasDate)

		if campaign.ID == "" {
			id, err := utils.GenerateID("csv")
			if err != nil {
				errs.addf("row %d: could not generate an id: %v", line, err)
			}
			campaign.ID = id
		}

		uploaded.Delivered = utils.AddCounts(uploaded.Delivered, row.count(colDelivered))
		uploaded.Campaigns = append(uploaded.Campaigns, campaign)
	}

	if err := errs.err("CSV contains invalid campaign rows"); err != nil {
		return nil, err
	}
	return uploaded, nil
}

func (s *Service) parseTrends(idx columnIndex, rows [][]string) (*domain.UploadedData, error) {
	var missing []string
	if !idx.has(colDate) {
		missing = append(missing, "missing column: date (also Send Date, Event Date, Day)")
	}
	if !idx.has(colOpened) && !idx.has(colClicked) {
		missing = append(missing, "missing column: opens or clicks")
	}
	if len(missing) > 0 {
		return nil, &ParseError{Message: "CSV is missing required trend columns", Details: missing}
	}

	uploaded := &domain.UploadedData{
		Kind:   domain.DataKindTrends,
		Trends: make([]domain.TrendPoint, 0, len(rows)),
	}

	var errs problems
	for i, record := range rows {
		line := i + 2
		row := rowReader{idx: idx, record: record, line: line, errs: &errs}

		date, ok := row.date(colDate)
		if !ok && row.text(colDate) == "" {
			errs.addf("row %d: date is empty", line)
		}

		uploaded.Trends = append(uploaded.Trends, domain.TrendPoint{
			Date:   utils.FormatDate(date),
			Opens:  row.count(colOpened),
			Clicks: row.count(colClicked),
		})
	}

	if err := errs.err("CSV contains invalid trend rows"); err != nil {
		return nil, err
	}
	return uploaded, nil
}

// ParseManual validates entries from the manual entry form.
func (s *Service) ParseManual(entries []domain.ManualCampaignEntry) (*domain.UploadedData, error) {
	if len(entries) == 0 {
		return nil, newParseError("no campaigns submitted", "campaigns must contain at least one entry")
	}

	uploaded := &domain.UploadedData{
		Kind:      domain.DataKindCampaigns,
		Source:    domain.ProvenanceManual,
		Campaigns: make([]domain.Campaign, 0, len(entries)),
	}

	var errs problems
	for i, entry := range entries {
		n := i + 1

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			errs.addf("campaign %d: name is required", n)
		}
		counts := []struct {
			field string
			value int
		}{
			{"sent", entry.Sent},
			{"opened", entry.Opened},
			{"clicked", entry.Clicked},
			{"bounced", entry.Bounced},
		}
		for _, c := range counts {
			switch {
			case c.value < 0:
				errs.addf("campaign %d: %s must not be negative", n, c.field)
			case c.value > maxCount:
				errs.addf("campaign %d: %s exceeds the maximum of %d", n, c.field, maxCount)
			}
		}

		campaign := domain.Campaign{
			ID:      strings.TrimSpace(entry.ID),
			Name:    name,
			Sent:    entry.Sent,
			Opened:  entry.Opened,
			Clicked: entry.Clicked,
			Bounced: entry.Bounced,
		}

		var date time.Time
		hasDate := false
		if strings.TrimSpace(entry.Date) != "" {
			parsed, err := utils.ParseDate(entry.Date)
			if err != nil {
				errs.addf("campaign %d: %v", n, err)
			} else {
				date, hasDate = parsed, true
				campaign.Date = utils.FormatDate(parsed)
			}
		}
		campaign.Status = s.status(entry.Status, date, hasDate)

		if campaign.ID == "" {
			id, err := utils.GenerateID("manual")
			if err != nil {
				errs.addf("campaign %d: could not generate an id: %v", n, err)
			}
			campaign.ID = id
		}

		if entry.Delivered != nil {
			switch {
			case *entry.Delivered < 0:
				errs.addf("campaign %d: delivered must not be negative", n)
			case *entry.Delivered > maxCount:
				errs.addf("campaign %d: delivered exceeds the maximum of %d", n, maxCount)
			}
			uploaded.HasDelivered = true
			uploaded.Delivered = utils.AddCounts(uploaded.Delivered, *entry.Delivered)
		} else {
			uploaded.Delivered = utils.AddCounts(uploaded.Delivered, max(entry.Sent-entry.Bounced, 0))
		}

		uploaded.Campaigns = append(uploaded.Campaigns, campaign)
	}

	if err := errs.err("manual entry contains invalid campaigns"); err != nil {
		return nil, err
	}
	return uploaded, nil
}

// status normalises a free-text status. Without one, campaigns dated in the
// future are Scheduled and the rest Completed.
func (s *Service) status(raw string, date time.Time, hasDate bool) domain.CampaignStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "sent", "done", "finished":
		return domain.CampaignCompleted
	case "active", "running", "sending", "in progress", "inprogress":
		return domain.CampaignActive
	case "scheduled", "planned", "pending", "queued":
		return domain.CampaignScheduled
	}

	if hasDate && utils.FormatDate(date) > utils.FormatDate(s.now()) {
		return domain.CampaignScheduled
	}
	return domain.CampaignCompleted
}

type rowReader struct {
	idx    columnIndex
	record []string
	line   int
	errs   *problems
}

func (r rowReader) text(col column) string {
	return r.idx.value(r.record, col)
}

func (r rowReader) count(col column) int {
	raw := r.text(col)
	n, err := parseCount(raw)
	switch {
	case errors.Is(err, errCountTooLarge):
		r.errs.addf("row %d: %s %q exceeds the maximum of %d", r.line, col, raw, maxCount)
	case err != nil:
		r.errs.addf("row %d: %s %q is not a non-negative number", r.line, col, raw)
	}
	return n
}

func (r rowReader) date(col column) (time.Time, bool) {
	raw := r.text(col)
	if raw == "" {
		return time.Time{}, false
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		r.errs.addf("row %d: %v", r.line, err)
		return time.Time{}, false
	}
	return d, true
}

// parseCount accepts "1234", "1,234", "1 234" and "1234.6" (rounded). Empty is 0.
func parseCount(raw string) (int, error) {
	cleaned := strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0, strconv.ErrSyntax
	}
	f = math.Round(f)
	if f > maxCount {
		return 0, errCountTooLarge
	}
	return int(f), nil
}
