// Package collectorclient calls the external collector that pulls timetable data into the API.
package collectorclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// Client triggers a collector run
type Client interface {
	FetchAndSync(ctx context.Context) (*dto.CollectorResponse, error)
}

// Config configures the HTTP client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type httpClient struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a collector client. There is no retry; a run is long and not idempotent.
func New(cfg Config) Client {
	return &httpClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *httpClient) FetchAndSync(ctx context.Context) (*dto.CollectorResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fetch-and-sync-data", nil)
	if err != nil {
		return nil, fmt.Errorf("build collector request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: collector request failed: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read collector response: %v", apperrors.ErrExternalService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: collector returned status %d: %s",
			apperrors.ErrExternalService, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out dto.CollectorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode collector response: %v", apperrors.ErrExternalService, err)
	}
	return &out, nil
}
