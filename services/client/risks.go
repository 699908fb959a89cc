// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package client

import (
	"context"
	"fmt"
	"net/url"
)

// SummaryFilter narrows the global risk summary.
type SummaryFilter struct {
	Continent string
	Level     string
}

// RiskSummary fetches the point-in-time risk aggregate across regions.
func (c *Client) RiskSummary(ctx context.Context, filter SummaryFilter) (*RiskSummary, error) {
	q := url.Values{}
	setString(q, "continent", filter.Continent)
	setString(q, "level", filter.Level)

	var out RiskSummary
	if err := c.get(ctx, "/risks/summary", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RiskMap fetches the map snapshot for the given region level. An
// empty level uses the server default ("country").
func (c *Client) RiskMap(ctx context.Context, level string) (*RiskMapSnapshot, error) {
	q := url.Values{}
	setString(q, "level", level)

	var out RiskMapSnapshot
	if err := c.get(ctx, "/risks/map", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegionRisks fetches the full risk breakdown for one region:
// composite index, disease risks, and the 7-day trend.
func (c *Client) RegionRisks(ctx context.Context, code string) (*RegionRisks, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: region code is empty", ErrInvalidInput)
	}
	var out RegionRisks
	if err := c.get(ctx, "/risks/regions/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiseaseFilter narrows disease risk queries.
type DiseaseFilter struct {
	RiskLevel string
	Limit     int
}

// DiseaseRisks fetches regions at risk for one disease type, ordered
// by the server on descending risk score.
func (c *Client) DiseaseRisks(ctx context.Context, diseaseType string, filter DiseaseFilter) ([]DiseaseRisk, error) {
	if diseaseType == "" {
		return nil, fmt.Errorf("%w: disease type is empty", ErrInvalidInput)
	}
	q := url.Values{}
	setString(q, "risk_level", filter.RiskLevel)
	setInt(q, "limit", filter.Limit)

	var out []DiseaseRisk
	if err := c.get(ctx, "/risks/diseases/"+url.PathEscape(diseaseType), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
