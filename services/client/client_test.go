// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient wires a Client against an httptest handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL)
}

func TestClient_ListRegions_OmitsEmptyFilters(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/regions", r.URL.Path)
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(RegionList{Total: 0, Regions: []Region{}})
	})

	_, err := c.ListRegions(context.Background(), RegionFilter{Level: "country", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, []string{"country"}, gotQuery["level"])
	assert.Equal(t, []string{"20"}, gotQuery["limit"])
	assert.NotContains(t, gotQuery, "continent")
	assert.NotContains(t, gotQuery, "parent_code")
	assert.NotContains(t, gotQuery, "skip")
}

func TestClient_GetRegion_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Region 'XX' not found"})
	})

	_, err := c.GetRegion(context.Background(), "XX")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Region 'XX' not found")
}

func TestClient_RiskSummary_Decodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/risks/summary", r.URL.Path)
		assert.Equal(t, "Africa", r.URL.Query().Get("continent"))
		json.NewEncoder(w).Encode(RiskSummary{
			TotalRegions:  100,
			Timestamp:     "2025-06-01T00:00:00",
			CriticalCount: 2,
			HighCount:     3,
			ModerateCount: 5,
			LowCount:      10,
			MinimalCount:  80,
			TopRiskRegions: []TopRiskRegion{
				{RegionCode: "SSD", RegionName: "South Sudan", VitalRiskIndex: 91.2, RiskLevel: "critical"},
			},
			DiseaseHotspots: map[string][]DiseaseHotspot{
				"cholera": {{RegionCode: "SSD", RiskScore: 88.0, RiskLevel: "critical"}},
			},
		})
	})

	summary, err := c.RiskSummary(context.Background(), SummaryFilter{Continent: "Africa"})
	require.NoError(t, err)

	assert.Equal(t, 100, summary.TotalRegions)
	sum := summary.CriticalCount + summary.HighCount + summary.ModerateCount +
		summary.LowCount + summary.MinimalCount
	assert.Equal(t, summary.TotalRegions, sum)
	require.Len(t, summary.TopRiskRegions, 1)
	assert.Equal(t, "SSD", summary.TopRiskRegions[0].RegionCode)
}

func TestClient_AcknowledgeAlert_PostsExpectedBody(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/alerts/42/acknowledge", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reviewed", body["notes"])

		json.NewEncoder(w).Encode(Alert{
			ID: 42, RegionCode: "SSD", Severity: "urgent",
			Status: AlertStatusAcknowledged, TriggeredAt: "2025-06-01T00:00:00",
		})
	})

	alert, err := c.AcknowledgeAlert(context.Background(), 42, "reviewed")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "acknowledge must issue exactly one POST")
	assert.Equal(t, AlertStatusAcknowledged, alert.Status)
}

func TestClient_AcknowledgeAlert_NonActiveRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"detail": "Alert 7 is not active (status: resolved)",
		})
	})

	_, err := c.AcknowledgeAlert(context.Background(), 7, "")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestClient_ResolveAlert_FalsePositive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/alerts/9/resolve", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["was_false_positive"])

		json.NewEncoder(w).Encode(Alert{
			ID: 9, RegionCode: "TCD", Severity: "warning",
			Status: AlertStatusFalsePositive, TriggeredAt: "2025-06-01T00:00:00",
		})
	})

	alert, err := c.ResolveAlert(context.Background(), 9, ResolveRequest{
		ResolutionNotes:  "sensor artifact",
		WasFalsePositive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, AlertStatusFalsePositive, alert.Status)
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.RiskMap(context.Background(), "")
	assert.ErrorIs(t, err, ErrServer)
}

func TestClient_ShapeMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Alert missing required severity and status fields.
		w.Write([]byte(`{"id": 3, "region_code": "SOM"}`))
	})

	_, err := c.GetAlert(context.Background(), 3)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": `))
	})

	_, err := c.ListAlerts(context.Background(), AlertFilter{})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_SignalTimeSeries_RequiresIndicator(t *testing.T) {
	c := New("http://unused.invalid")

	_, err := c.SignalTimeSeries(context.Background(), "SSD", SignalFilter{SignalType: "disease_surveillance"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClient_DiseaseRisks_QueryShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/risks/diseases/cholera", r.URL.Path)
		assert.Equal(t, "high", r.URL.Query().Get("risk_level"))
		json.NewEncoder(w).Encode([]DiseaseRisk{
			{DiseaseType: "cholera", RiskScore: 72.5, RiskLevel: "high", ConfidenceScore: 0.8},
		})
	})

	risks, err := c.DiseaseRisks(context.Background(), "cholera", DiseaseFilter{RiskLevel: "high"})
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "cholera", risks[0].DiseaseType)
}
