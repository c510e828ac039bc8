package sfmcclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
)

func TestMatchNonEmpty(t *testing.T) {
	tests := []struct {
		name          string
		body          any
		expectedItems int
		expectedOK    bool
	}{
		{name: "items collection", body: map[string]any{"items": []any{1, 2, 3}}, expectedItems: 3, expectedOK: true},
		{name: "empty items collection", body: map[string]any{"count": float64(0), "items": []any{}}, expectedOK: false},
		{name: "entities collection", body: map[string]any{"entities": []any{map[string]any{}}}, expectedItems: 1, expectedOK: true},
		{name: "definitions collection", body: map[string]any{"definitions": []any{}}, expectedOK: false},
		{name: "plain object", body: map[string]any{"id": "x"}, expectedItems: 1, expectedOK: true},
		{name: "empty object", body: map[string]any{}, expectedOK: false},
		{name: "array", body: []any{"a", "b"}, expectedItems: 2, expectedOK: true},
		{name: "empty array", body: []any{}, expectedOK: false},
		{name: "scalar", body: "ok", expectedOK: false},
		{name: "null", body: nil, expectedOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := MatchNonEmpty(tt.body)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedItems, items)
		})
	}
}

func TestDefaultCatalog_ConfiguredEndpointsComeFirst(t *testing.T) {
	catalog := DefaultCatalog(config.Probe{
		ExtraSendEndpoints:     []string{"/custom/v1/sends"},
		ExtraTrackingEndpoints: []string{"/custom/v1/opens", "/custom/v1/clicks"},
	})

	sends := catalog.Candidates(domain.CategoryEmailSends)
	tracking := catalog.Candidates(domain.CategoryTrackingEvents)

	assert.Equal(t, CatalogVersion, catalog.Version)
	assert.Equal(t, "/custom/v1/sends", sends[0].Path)
	assert.Len(t, sends, len(defaultSendCandidates())+1)
	assert.Equal(t, "/custom/v1/opens", tracking[0].Path)
	assert.Equal(t, "/custom/v1/clicks", tracking[1].Path)
	assert.Len(t, tracking, len(defaultTrackingCandidates())+2)
}

func TestDefaultCatalog_EveryCandidateIsDescribed(t *testing.T) {
	catalog := DefaultCatalog(config.Probe{})

	for _, c := range append(catalog.Sends, catalog.Tracking...) {
		assert.NotEmpty(t, c.Path)
		assert.NotEmpty(t, c.Description)
	}
}
