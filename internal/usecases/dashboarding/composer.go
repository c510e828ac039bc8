package dashboarding

import (
	"sort"
	"strings"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/pkg/utils"
)

// ConnectionState is the outcome a dashboard payload describes.
type ConnectionState string

const (
	StateAuthFailed        ConnectionState = "AUTH_FAILED"
	StateConnectedNoData   ConnectionState = "CONNECTED_NO_DATA"
	StateConnectedWithData ConnectionState = "CONNECTED_WITH_DATA"
)

const (
	defaultAuthFailure = "Could not authenticate with Marketing Cloud"
	NoDataMessage      = "Connected to Marketing Cloud - no data yet. Showing demo data until sends or tracking events are available"
)

func StateOf(auth domain.AuthResult, probes domain.ProbeResults) ConnectionState {
	switch {
	case !auth.Authenticated:
		return StateAuthFailed
	case !probes.HasData():
		return StateConnectedNoData
	}
	return StateConnectedWithData
}

type Composer struct {
	synth *Synthesizer
}

func NewComposer(synth *Synthesizer) *Composer {
	return &Composer{synth: synth}
}

// Compose builds the payload for the auth and probe outcome. Connected-but-
// empty is reported as demo data (isRealData=false).
func (c *Composer) Compose(auth domain.AuthResult, probes domain.ProbeResults, period domain.Period) *domain.DashboardPayload {
	payload := c.synth.Synthesize(period)

	switch StateOf(auth, probes) {
	case StateAuthFailed:
		payload.IsRealData = false
		payload.SFMCConnected = false
		payload.ConnectionStatus = "Demo mode - not connected to Marketing Cloud"
		payload.Error = auth.Reason
		if payload.Error == "" {
			payload.Error = defaultAuthFailure
		}

	case StateConnectedNoData:
		payload.IsRealData = false
		payload.SFMCConnected = true
		payload.ConnectionStatus = "Connected - no data yet"
		payload.Error = NoDataMessage

	case StateConnectedWithData:
		// TODO: map the matched Marketing Cloud bodies (sends, opens, clicks)
		// onto overview, trends and campaigns once the tenant's schema is
		// known; the synthesized figures stand in until then.
		payload.IsRealData = true
		payload.SFMCConnected = true
		payload.ConnectionStatus = "Connected - data from " + strings.Join(hitSources(probes), ", ")
		payload.Error = ""
	}

	return payload
}

func hitSources(probes domain.ProbeResults) []string {
	sources := make([]string, 0, 2)
	for _, report := range []*domain.ProbeReport{probes.Sends, probes.Tracking} {
		if report != nil && report.Hit != nil {
			sources = append(sources, report.Hit.Description)
		}
	}
	return sources
}

// MergeUploaded applies uploaded data to a copy of existing. A campaign
// upload replaces the campaign list and recomputes the overview from it; a
// trends upload replaces the trend series and the open and click totals.
func MergeUploaded(existing *domain.DashboardPayload, uploaded *domain.UploadedData) *domain.DashboardPayload {
	merged := existing.Clone()
	if uploaded == nil {
		return merged
	}

	switch uploaded.Kind {
	case domain.DataKindTrends:
		merged.Trends = sortedTrends(uploaded.Trends)
		merged.Overview.Opened, merged.Overview.Clicked = 0, 0
		for _, t := range merged.Trends {
			merged.Overview.Opened = utils.AddCounts(merged.Overview.Opened, t.Opens)
			merged.Overview.Clicked = utils.AddCounts(merged.Overview.Clicked, t.Clicks)
		}

	default:
		merged.Campaigns = append(make([]domain.Campaign, 0, len(uploaded.Campaigns)), uploaded.Campaigns...)
		merged.Overview = overviewOf(merged.Campaigns)
		if uploaded.HasDelivered {
			merged.Overview.Delivered = uploaded.Delivered
		}
		if trends := trendsFromCampaigns(merged.Campaigns); len(trends) > 0 {
			merged.Trends = trends
		}
	}

	source := uploaded.Source
	if source == "" {
		source = domain.ProvenanceCSV
	}

	merged.IsRealData = true
	merged.SFMCConnected = true
	merged.ConnectionStatus = string(source)
	merged.Error = ""

	return merged
}

func overviewOf(campaigns []domain.Campaign) domain.Overview {
	var o domain.Overview
	for _, c := range campaigns {
		o.TotalSent = utils.AddCounts(o.TotalSent, c.Sent)
		o.Opened = utils.AddCounts(o.Opened, c.Opened)
		o.Clicked = utils.AddCounts(o.Clicked, c.Clicked)
		o.Bounced = utils.AddCounts(o.Bounced, c.Bounced)
	}
	o.Delivered = max(o.TotalSent-o.Bounced, 0)
	return o
}

// trendsFromCampaigns sums opens and clicks per campaign date.
func trendsFromCampaigns(campaigns []domain.Campaign) []domain.TrendPoint {
	byDate := make(map[string]*domain.TrendPoint)
	for _, c := range campaigns {
		d, err := utils.ParseDate(c.Date)
		if err != nil {
			continue
		}
		key := utils.FormatDate(d)
		point, ok := byDate[key]
		if !ok {
			point = &domain.TrendPoint{Date: key}
			byDate[key] = point
		}
		point.Opens = utils.AddCounts(point.Opens, c.Opened)
		point.Clicks = utils.AddCounts(point.Clicks, c.Clicked)
	}

	trends := make([]domain.TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		trends = append(trends, *p)
	}
	return sortedTrends(trends)
}

func sortedTrends(trends []domain.TrendPoint) []domain.TrendPoint {
	out := append(make([]domain.TrendPoint, 0, len(trends)), trends...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
