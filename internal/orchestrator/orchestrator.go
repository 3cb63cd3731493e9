// Package orchestrator talks to the external narrative AI service. The
// service is a black box: it accepts a snapshot document and returns a
// structured narrative that is checked for shape only.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Client produces a narrative for one snapshot.
type Client interface {
	Narrative(ctx context.Context, snap entities.Snapshot) (*entities.Narrative, error)
}

// Disabled is a no-op client used when narrative generation is off.
type Disabled struct{}

// Narrative returns no narrative and no error.
func (Disabled) Narrative(context.Context, entities.Snapshot) (*entities.Narrative, error) {
	return nil, nil
}

// HTTPClient posts snapshots to the narrative service.
type HTTPClient struct {
	url    string
	client *http.Client
	log    *zap.SugaredLogger
}

// NewHTTPClient constructs an HTTPClient.
func NewHTTPClient(url string, timeout time.Duration, log *zap.SugaredLogger) *HTTPClient {
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Narrative sends the snapshot and decodes the narrative shape.
func (c *HTTPClient) Narrative(ctx context.Context, snap entities.Snapshot) (*entities.Narrative, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build narrative request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("narrative request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("narrative service returned status %d", resp.StatusCode)
	}

	var narrative entities.Narrative
	if err := json.NewDecoder(resp.Body).Decode(&narrative); err != nil {
		return nil, fmt.Errorf("decode narrative: %w", err)
	}
	return &narrative, nil
}
