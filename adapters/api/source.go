package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// SourceConfig describes the external tabular data service endpoint.
type SourceConfig struct {
	BaseURL string
	// DataPath is an optional JSONPath to the record array when the service
	// wraps its payload (e.g. "data" or "result.interactions"). Empty means
	// the response body is the array itself.
	DataPath string
	Headers  map[string]string
	Timeout  time.Duration
}

// Source fetches dataset rows from the external HTTP data service.
type Source struct {
	config     SourceConfig
	httpClient *http.Client
}

// NewSource creates an HTTP row source.
func NewSource(config SourceConfig) *Source {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Source{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Describe identifies the source endpoint.
func (s *Source) Describe() string {
	return s.config.BaseURL
}

// FetchRows performs the dataset fetch and parses the response into raw
// records. Non-200 responses and non-tabular payloads are errors; the cache
// layer decides whether to keep serving the previous dataset.
func (s *Source) FetchRows(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data service returned status %d: %s", resp.StatusCode, string(body))
	}

	return parseRecords(body, s.config.DataPath)
}

// parseRecords extracts the record array from the response, tolerating both a
// bare array and a single wrapped object.
func parseRecords(body []byte, dataPath string) ([]map[string]any, error) {
	var data gjson.Result
	if dataPath == "" {
		data = gjson.ParseBytes(body)
	} else {
		data = gjson.GetBytes(body, dataPath)
		if !data.Exists() {
			return nil, fmt.Errorf("data path %q not found in response", dataPath)
		}
	}

	switch {
	case data.IsArray():
		var records []map[string]any
		if err := json.Unmarshal([]byte(data.Raw), &records); err != nil {
			return nil, fmt.Errorf("failed to parse data array: %w", err)
		}
		return records, nil
	case data.IsObject():
		var record map[string]any
		if err := json.Unmarshal([]byte(data.Raw), &record); err != nil {
			return nil, fmt.Errorf("failed to parse data object: %w", err)
		}
		return []map[string]any{record}, nil
	default:
		return nil, fmt.Errorf("response is not tabular: expected a JSON array of row objects")
	}
}
