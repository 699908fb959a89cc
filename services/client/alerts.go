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
	"strconv"
)

// AlertFilter narrows alert list queries.
type AlertFilter struct {
	Status     string
	Severity   string
	AlertType  string
	RegionCode string
	Skip       int
	Limit      int
}

// ListAlerts fetches alerts matching the filter.
func (c *Client) ListAlerts(ctx context.Context, filter AlertFilter) (*AlertList, error) {
	q := url.Values{}
	setString(q, "status", filter.Status)
	setString(q, "severity", filter.Severity)
	setString(q, "alert_type", filter.AlertType)
	setString(q, "region_code", filter.RegionCode)
	setInt(q, "skip", filter.Skip)
	setInt(q, "limit", filter.Limit)

	var out AlertList
	if err := c.get(ctx, "/alerts", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveAlerts fetches currently active alerts, most severe first.
// severity optionally restricts to one severity; limit caps the page.
func (c *Client) ActiveAlerts(ctx context.Context, severity string, limit int) (*AlertList, error) {
	q := url.Values{}
	setString(q, "severity", severity)
	setInt(q, "limit", limit)

	var out AlertList
	if err := c.get(ctx, "/alerts/active", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAlert fetches one alert by id.
func (c *Client) GetAlert(ctx context.Context, id int) (*Alert, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: alert id must be positive", ErrInvalidInput)
	}
	var out Alert
	if err := c.get(ctx, "/alerts/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// acknowledgeRequest is the acknowledge mutation body.
type acknowledgeRequest struct {
	Notes string `json:"notes,omitempty"`
}

// AcknowledgeAlert transitions an active alert to acknowledged and
// returns the updated record. The server rejects non-active alerts
// with ErrBadRequest. No cache is touched here: invalidation is the
// synchronization layer's job.
func (c *Client) AcknowledgeAlert(ctx context.Context, id int, notes string) (*Alert, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: alert id must be positive", ErrInvalidInput)
	}
	var out Alert
	path := "/alerts/" + strconv.Itoa(id) + "/acknowledge"
	if err := c.post(ctx, path, acknowledgeRequest{Notes: notes}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveRequest is the resolve mutation body.
type ResolveRequest struct {
	ResolutionNotes  string `json:"resolution_notes,omitempty"`
	WasFalsePositive bool   `json:"was_false_positive"`
}

// ResolveAlert transitions an alert to resolved (or false_positive
// when flagged) and returns the updated record. Re-resolving a
// resolved alert yields ErrBadRequest.
func (c *Client) ResolveAlert(ctx context.Context, id int, req ResolveRequest) (*Alert, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: alert id must be positive", ErrInvalidInput)
	}
	var out Alert
	path := "/alerts/" + strconv.Itoa(id) + "/resolve"
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
