package domain

// DataKind identifies what an uploaded dataset describes.
type DataKind string

const (
	DataKindCampaigns DataKind = "campaigns"
	DataKindTrends    DataKind = "trends"
)

// Provenance is written to connectionStatus when uploaded data replaces the dashboard.
type Provenance string

const (
	ProvenanceCSV    Provenance = "CSV import"
	ProvenanceManual Provenance = "Manual entry"
)

// UploadedData is the parsed result of a CSV import or manual form entry.
type UploadedData struct {
	Kind      DataKind
	Source    Provenance
	Campaigns []Campaign
	Trends    []TrendPoint
	// HasDelivered is set when the source supplied delivered counts on campaigns.
	HasDelivered bool
	Delivered    int
}

func (u *UploadedData) RecordCount() int {
	if u == nil {
		return 0
	}
	if u.Kind == DataKindTrends {
		return len(u.Trends)
	}
	return len(u.Campaigns)
}

type UploadRequest struct {
	CSVData  string `json:"csvData"`
	DataType string `json:"dataType,omitempty"`
}

// ManualCampaignEntry is one row of the manual entry form.
type ManualCampaignEntry struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Status    string `json:"status,omitempty"`
	Sent      int    `json:"sent"`
	Delivered *int   `json:"delivered,omitempty"`
	Opened    int    `json:"opened"`
	Clicked   int    `json:"clicked"`
	Bounced   int    `json:"bounced"`
}

type ManualEntryRequest struct {
	Campaigns []ManualCampaignEntry `json:"campaigns"`
}

type UploadResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Data        *DashboardPayload `json:"data"`
	RecordCount int               `json:"recordCount"`
}
