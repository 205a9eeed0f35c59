// Package vat provides the external VAT-validation collaborator: a client
// for the EU VIES check-vat service plus a caching wrapper.
package vat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the VIES API (1MB)
const maxResponseSize = 1 * 1024 * 1024

// DefaultBaseURL is the production VIES REST endpoint
const DefaultBaseURL = "https://ec.europa.eu/taxation_customs/vies/rest-api"

// ErrMalformedVAT indicates a VAT string without a usable country prefix
var ErrMalformedVAT = errors.New("vies: malformed VAT number")

// Config holds VIES client settings
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// ViesClient validates VAT numbers against the EU VIES check-vat REST API.
// Results are tri-state: a nil pointer means the service was unreachable or
// the answer indeterminate; the accompanying error carries the cause for
// logging only and never propagates as a failure.
type ViesClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewViesClient creates a VIES client with the given configuration
func NewViesClient(cfg Config, logger *zap.Logger) *ViesClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViesClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// viesResponse is the subset of the check-vat response we consume
type viesResponse struct {
	IsValid bool `json:"isValid"`
}

// Validate checks a VAT number. The member-state code is taken from the
// first two letters of the number; a malformed prefix yields an
// indeterminate result, not a rejection.
func (c *ViesClient) Validate(ctx context.Context, vat string) (*bool, error) {
	country, number, err := splitVAT(vat)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/ms/%s/vat/%s", c.baseURL, country, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("vies: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vies: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vies: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("vies: read response: %w", err)
	}

	var parsed viesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("vies: parse response: %w", err)
	}

	c.logger.Debug("VAT number checked",
		zap.String("country", country),
		zap.Bool("valid", parsed.IsValid),
	)
	return &parsed.IsValid, nil
}

// splitVAT splits a VAT number into member-state code and the national part
func splitVAT(vat string) (country, number string, err error) {
	v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(vat), " ", ""))
	if len(v) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedVAT, vat)
	}
	country, number = v[:2], v[2:]
	for _, r := range country {
		if r < 'A' || r > 'Z' {
			return "", "", fmt.Errorf("%w: %q", ErrMalformedVAT, vat)
		}
	}
	return country, number, nil
}
