package domain

type CampaignStatus string

const (
	CampaignCompleted CampaignStatus = "Completed"
	CampaignActive    CampaignStatus = "Active"
	CampaignScheduled CampaignStatus = "Scheduled"
)

// Overview totals for the requested period. The funnel ordering
// (sent >= delivered >= opened >= clicked) is not enforced.
type Overview struct {
	TotalSent int `json:"totalSent"`
	Delivered int `json:"delivered"`
	Opened    int `json:"opened"`
	Clicked   int `json:"clicked"`
	Bounced   int `json:"bounced"`
}

type TrendPoint struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Opens  int    `json:"opens"`
	Clicks int    `json:"clicks"`
}

type Campaign struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Date    string         `json:"date"`
	Status  CampaignStatus `json:"status"`
	Sent    int            `json:"sent"`
	Opened  int            `json:"opened"`
	Clicked int            `json:"clicked"`
	Bounced int            `json:"bounced,omitempty"`
}

// DashboardPayload is the contract handed to the presentation layer. It is
// built fresh for every request and never stored.
type DashboardPayload struct {
	Overview         Overview     `json:"overview"`
	Trends           []TrendPoint `json:"trends"`
	Campaigns        []Campaign   `json:"campaigns"`
	IsRealData       bool         `json:"isRealData"`
	ConnectionStatus string       `json:"connectionStatus"`
	SFMCConnected    bool         `json:"sfmcConnected"`
	Error            string       `json:"error,omitempty"`
}

// NewEmptyPayload returns a payload with no metrics and non-nil slices, so
// it always encodes as arrays rather than null.
func NewEmptyPayload() *DashboardPayload {
	return &DashboardPayload{
		Trends:    []TrendPoint{},
		Campaigns: []Campaign{},
	}
}

// Clone returns a deep copy of the payload.
func (p *DashboardPayload) Clone() *DashboardPayload {
	if p == nil {
		return NewEmptyPayload()
	}

	clone := *p
	clone.Trends = append(make([]TrendPoint, 0, len(p.Trends)), p.Trends...)
	clone.Campaigns = append(make([]Campaign, 0, len(p.Campaigns)), p.Campaigns...)
	return &clone
}
