// Package connectwise implements the outbound platform client and the
// paginated fetcher that drives it.
package connectwise

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Resource collection endpoints.
const (
	EndpointProjects    = "project/projects"
	EndpointTickets     = "project/tickets"
	EndpointTimeEntries = "time/entries"
	EndpointNotes       = "project/notes"
	EndpointMembers     = "system/members"
)

// Credentials holds the single credential set used for every request.
type Credentials struct {
	Company    string
	PublicKey  string
	PrivateKey string
	ClientID   string
}

// Query describes one resource page request.
type Query struct {
	Conditions string
	Fields     []string
	OrderBy    string
	Page       int
	PageSize   int
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Conditions != "" {
		v.Set("conditions", q.Conditions)
	}
	if len(q.Fields) > 0 {
		v.Set("fields", strings.Join(q.Fields, ","))
	}
	if q.OrderBy != "" {
		v.Set("orderBy", q.OrderBy)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// Client issues authenticated GET requests against the platform API
// and classifies failures for the retry policy.
type Client struct {
	baseURL string
	auth    string
	client  *http.Client
	creds   Credentials
	log     *zap.SugaredLogger
}

// NewClient constructs a Client. Missing endpoint or credentials are a
// configuration error.
func NewClient(baseURL string, creds Credentials, timeout time.Duration, log *zap.SugaredLogger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", entities.ErrConfiguration)
	}
	if creds.Company == "" || creds.PublicKey == "" || creds.PrivateKey == "" || creds.ClientID == "" {
		return nil, fmt.Errorf("%w: incomplete credential set", entities.ErrConfiguration)
	}

	raw := fmt.Sprintf("%s+%s:%s", creds.Company, creds.PublicKey, creds.PrivateKey)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(raw)),
		client:  &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log,
	}, nil
}

// Get requests one page of a resource collection and returns its raw
// records. All failures come back as a classified RequestError.
func (c *Client) Get(ctx context.Context, endpoint string, q Query) ([]json.RawMessage, error) {
	u := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &entities.RequestError{Endpoint: endpoint, Class: entities.FailurePermanent, Err: err}
	}
	req.URL.RawQuery = q.values().Encode()
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("clientId", c.creds.ClientID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &entities.RequestError{Endpoint: endpoint, Class: entities.FailureTransient, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		var records []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
			return nil, &entities.RequestError{
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Class:      entities.FailurePermanent,
				Err:        fmt.Errorf("malformed response: %w", err),
			}
		}
		return records, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &entities.RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      entities.FailureRateLimited,
			RetryAfter: retryAfter(resp),
		}

	case resp.StatusCode >= 500:
		return nil, &entities.RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      entities.FailureTransient,
		}

	default:
		return nil, &entities.RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      entities.FailurePermanent,
		}
	}
}

// retryAfter parses the rate-limit-reset hint. Only the delay-seconds
// form is expected from the platform.
func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
