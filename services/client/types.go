// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package client

// Wire types for the VitalSigns API. Field names mirror the service's
// JSON contract (snake_case). Timestamps stay as ISO-8601 strings: the
// client formats them for display but never does business logic on
// parsed time values.

// =============================================================================
// Regions
// =============================================================================

// Region is a monitored geographic region as returned in list
// responses, including the denormalized current risk fields used for
// list display.
type Region struct {
	ID                    int      `json:"id"`
	Code                  string   `json:"code" validate:"required"`
	Name                  string   `json:"name" validate:"required"`
	NameLocal             string   `json:"name_local,omitempty"`
	Level                 string   `json:"level" validate:"required"`
	ParentCode            string   `json:"parent_code,omitempty"`
	Latitude              float64  `json:"latitude"`
	Longitude             float64  `json:"longitude"`
	Population            *int64   `json:"population,omitempty"`
	Continent             string   `json:"continent,omitempty"`
	ISOCode               string   `json:"iso_code,omitempty"`
	IsActive              bool     `json:"is_active"`
	MonitoringPriority    int      `json:"monitoring_priority"`
	CurrentRiskLevel      string   `json:"current_risk_level,omitempty"`
	CurrentVitalRiskIndex *float64 `json:"current_vital_risk_index,omitempty"`
}

// RegionDetail extends Region with geography, lifecycle timestamps,
// the current risk breakdown, and the active alert count.
type RegionDetail struct {
	Region

	AreaKm2                 *float64  `json:"area_km2,omitempty"`
	PopulationDensity       *float64  `json:"population_density,omitempty"`
	Timezone                string    `json:"timezone,omitempty"`
	BBox                    []float64 `json:"bbox,omitempty"`
	CreatedAt               string    `json:"created_at"`
	UpdatedAt               string    `json:"updated_at"`
	HungerStressIndex       *float64  `json:"hunger_stress_index,omitempty"`
	HealthSystemStrainIndex *float64  `json:"health_system_strain_index,omitempty"`
	DiseaseOutbreakIndex    *float64  `json:"disease_outbreak_index,omitempty"`
	ActiveAlertsCount       int       `json:"active_alerts_count"`
}

// RegionList is the envelope for region list responses.
type RegionList struct {
	Total   int      `json:"total"`
	Regions []Region `json:"regions"`
}

// =============================================================================
// Risks
// =============================================================================

// RiskIndex is the current composite risk record for a region: three
// sub-indices, the derived vital risk index, quality scores, and the
// validity window. The server guarantees exactly one current record
// per region.
type RiskIndex struct {
	RegionID   int    `json:"region_id"`
	RegionCode string `json:"region_code" validate:"required"`
	RegionName string `json:"region_name"`

	HungerStressIndex       float64 `json:"hunger_stress_index"`
	HealthSystemStrainIndex float64 `json:"health_system_strain_index"`
	DiseaseOutbreakIndex    float64 `json:"disease_outbreak_index"`

	VitalRiskIndex float64 `json:"vital_risk_index"`
	RiskLevel      string  `json:"risk_level" validate:"required"`

	ConfidenceScore  float64 `json:"confidence_score"`
	DataCompleteness float64 `json:"data_completeness"`

	CalculationDate string `json:"calculation_date"`
	ValidFrom       string `json:"valid_from"`
	ValidUntil      string `json:"valid_until"`
	ModelVersion    string `json:"model_version"`

	ContributingFactors map[string]any `json:"contributing_factors,omitempty"`
}

// DiseaseRisk is a per-region, per-disease risk assessment. The disease
// type is an open-ended key; unknown values must still render.
type DiseaseRisk struct {
	DiseaseType           string         `json:"disease_type" validate:"required"`
	RiskScore             float64        `json:"risk_score"`
	RiskLevel             string         `json:"risk_level"`
	IsHighSeason          bool           `json:"is_high_season"`
	SeasonalBaseline      *float64       `json:"seasonal_baseline,omitempty"`
	DeviationFromSeasonal *float64       `json:"deviation_from_seasonal,omitempty"`
	TrendDirection        string         `json:"trend_direction,omitempty"`
	TrendVelocity         *float64       `json:"trend_velocity,omitempty"`
	ConfidenceScore       float64        `json:"confidence_score"`
	CalculationDate       string         `json:"calculation_date"`
	ContributingSignals   map[string]any `json:"contributing_signals,omitempty"`
}

// TrendPoint is one sample of a region's recent risk history.
type TrendPoint struct {
	Date           string  `json:"date"`
	VitalRiskIndex float64 `json:"vital_risk_index"`
	RiskLevel      string  `json:"risk_level"`
}

// RegionRisks is the full risk breakdown for one region: the current
// composite record, disease-specific assessments, and the 7-day trend.
type RegionRisks struct {
	RegionID   int    `json:"region_id"`
	RegionCode string `json:"region_code" validate:"required"`
	RegionName string `json:"region_name"`

	CompositeRisk RiskIndex     `json:"composite_risk"`
	DiseaseRisks  []DiseaseRisk `json:"disease_risks"`
	RiskTrend     []TrendPoint  `json:"risk_trend,omitempty"`
}

// TopRiskRegion is one entry of the summary's pre-sorted top list. The
// server orders the list; the client must not re-sort it.
type TopRiskRegion struct {
	RegionCode     string  `json:"region_code"`
	RegionName     string  `json:"region_name"`
	VitalRiskIndex float64 `json:"vital_risk_index"`
	RiskLevel      string  `json:"risk_level"`
}

// DiseaseHotspot is one entry of a per-disease hotspot list.
type DiseaseHotspot struct {
	RegionCode string  `json:"region_code"`
	RegionName string  `json:"region_name"`
	RiskScore  float64 `json:"risk_score"`
	RiskLevel  string  `json:"risk_level"`
}

// RiskSummary is a point-in-time aggregate across regions. It is
// refreshed wholesale, never patched field by field. The per-level
// counts sum to TotalRegions.
type RiskSummary struct {
	TotalRegions int    `json:"total_regions"`
	Timestamp    string `json:"timestamp"`

	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	ModerateCount int `json:"moderate_count"`
	LowCount      int `json:"low_count"`
	MinimalCount  int `json:"minimal_count"`

	TopRiskRegions  []TopRiskRegion             `json:"top_risk_regions"`
	DiseaseHotspots map[string][]DiseaseHotspot `json:"disease_hotspots"`
}

// MapRegion is the simplified per-region payload for map rendering.
type MapRegion struct {
	Code            string  `json:"code" validate:"required"`
	Name            string  `json:"name"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	ISOCode         string  `json:"iso_code,omitempty"`
	VitalRiskIndex  float64 `json:"vital_risk_index"`
	RiskLevel       string  `json:"risk_level"`
	HungerStress    float64 `json:"hunger_stress"`
	HealthStrain    float64 `json:"health_strain"`
	DiseaseOutbreak float64 `json:"disease_outbreak"`
}

// RiskMapSnapshot is the wholesale map payload: one marker input per
// active region at the requested level.
type RiskMapSnapshot struct {
	Timestamp string      `json:"timestamp"`
	Regions   []MapRegion `json:"regions"`
}

// =============================================================================
// Alerts
// =============================================================================

// Alert is a triaged risk alert. The client never mutates alerts in
// place: acknowledge and resolve go through the server, which returns
// the updated record.
type Alert struct {
	ID         int    `json:"id"`
	RegionID   int    `json:"region_id"`
	RegionCode string `json:"region_code" validate:"required"`
	RegionName string `json:"region_name"`

	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	RiskScore         float64 `json:"risk_score"`
	ThresholdExceeded float64 `json:"threshold_exceeded"`
	DiseaseType       string  `json:"disease_type,omitempty"`

	TriggeredAt    string `json:"triggered_at"`
	ExpiresAt      string `json:"expires_at,omitempty"`
	AcknowledgedAt string `json:"acknowledged_at,omitempty"`
	ResolvedAt     string `json:"resolved_at,omitempty"`

	ConfidenceScore     float64        `json:"confidence_score"`
	ContributingFactors map[string]any `json:"contributing_factors,omitempty"`
}

// AlertList is the envelope for alert list responses. ActiveCount is
// the number of active alerts overall, independent of the filter that
// produced the page.
type AlertList struct {
	Total       int     `json:"total"`
	ActiveCount int     `json:"active_count"`
	Alerts      []Alert `json:"alerts"`
}

// Alert lifecycle states.
const (
	AlertStatusActive        = "active"
	AlertStatusAcknowledged  = "acknowledged"
	AlertStatusResolved      = "resolved"
	AlertStatusExpired       = "expired"
	AlertStatusFalsePositive = "false_positive"
)

// =============================================================================
// Signals
// =============================================================================

// Signal is one aggregated observation from an upstream data source.
type Signal struct {
	ID         int    `json:"id"`
	SourceID   int    `json:"source_id"`
	SourceName string `json:"source_name"`
	RegionID   int    `json:"region_id"`
	RegionCode string `json:"region_code"`

	SignalType    string  `json:"signal_type"`
	IndicatorName string  `json:"indicator_name"`
	Value         float64 `json:"value"`
	Unit          string  `json:"unit,omitempty"`

	Confidence   float64 `json:"confidence"`
	IsAnomaly    bool    `json:"is_anomaly"`
	QualityScore float64 `json:"quality_score"`

	ObservationDate string `json:"observation_date"`
	ReportingDate   string `json:"reporting_date"`
	CreatedAt       string `json:"created_at"`
}

// SignalPoint is one sample of a signal time series.
type SignalPoint struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
	IsAnomaly  bool    `json:"is_anomaly"`
}

// SignalTimeSeries is a single indicator's history for one region,
// with server-computed summary statistics.
type SignalTimeSeries struct {
	RegionID      int    `json:"region_id"`
	RegionCode    string `json:"region_code" validate:"required"`
	SignalType    string `json:"signal_type"`
	IndicatorName string `json:"indicator_name"`
	Unit          string `json:"unit,omitempty"`

	DataPoints []SignalPoint `json:"data_points"`

	Mean  *float64 `json:"mean,omitempty"`
	Std   *float64 `json:"std,omitempty"`
	Trend string   `json:"trend,omitempty"`
}
