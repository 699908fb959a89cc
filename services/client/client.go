// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package client is the typed HTTP client for the VitalSigns risk API.
//
// # Description
//
// One method per API operation, grouped by resource family (regions,
// risks, alerts, signals). The client performs no retry and no caching:
// both belong to the synchronization layer (services/store), which
// keeps this package trivially testable against httptest servers.
//
// Absent optional filter parameters are omitted from the query string,
// never sent as empty values. Mutations return the updated record and
// touch no cache.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vitalsigns-project/vitalsigns/pkg/logging"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 15 * time.Second

// apiPrefix is the fixed base path of the consumed service contract.
const apiPrefix = "/api/v1"

// Client talks to one VitalSigns API deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient substitutes the underlying HTTP client (tests,
// instrumented transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a structured logger. Defaults to the process
// default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the given base URL, e.g.
// "http://localhost:8000". The /api/v1 prefix is appended internally.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the service's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// get issues a GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues a POST request with a JSON body and decodes the response
// into out. A nil body sends an empty JSON object.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// do is the single transport path for all operations. It maps HTTP
// status codes onto the package's error taxonomy and validates the
// decoded payload shape.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if ctx == nil {
		return ErrInvalidInput
	}

	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(method, path, requestID, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("response decode failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := c.validateShape(out); err != nil {
		c.logger.Warn("response shape validation failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// statusError converts a non-200 response into a sentinel-wrapped
// error, preserving the server's detail message when decodable.
func (c *Client) statusError(method, path, requestID string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := ""
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		detail = eb.Detail
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	c.logger.Debug("api error response",
		"method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "detail", detail)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrBadRequest, detail)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, detail)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

// validateShape runs struct tag validation over decoded payloads.
// Slices validate element-wise; scalar payloads validate directly.
func (c *Client) validateShape(out any) error {
	switch v := out.(type) {
	case *[]DiseaseRisk:
		for i := range *v {
			if err := c.validate.Struct(&(*v)[i]); err != nil {
				return err
			}
		}
		return nil
	case *[]Signal:
		// Signals carry no required fields beyond what decode enforces.
		return nil
	default:
		return c.validate.Struct(out)
	}
}

// setInt adds an integer query parameter when it is non-zero.
func setInt(q url.Values, key string, value int) {
	if value != 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

// setString adds a string query parameter when it is non-empty.
func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
