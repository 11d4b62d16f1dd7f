package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jessealloy/activity-heatmap/config"
)

// ErrRateLimited is returned when the API answers HTTP 429. It is not
// fatal: the caller persists what it has and ends the run early.
var ErrRateLimited = errors.New("strava: rate limit exceeded")

// AuthError indicates the bearer token could not be obtained or was
// rejected. It is fatal for an updater run.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("strava authentication failed: %v (refresh the credentials: STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET, STRAVA_REFRESH_TOKEN)", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Client calls the Strava v3 API with an auto-refreshing bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	perPage    int
}

// NewClient builds a client from the Strava configuration. Incomplete
// credentials are reported immediately rather than on first use.
func NewClient(ctx context.Context, cfg config.StravaConfig) (*Client, error) {
	if err := cfg.CredentialsError(); err != nil {
		return nil, err
	}
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		perPage:    cfg.PerPage,
	}, nil
}

// ListActivities fetches one page of the athlete's activities, newest
// first. A non-zero after timestamp asks the API for activities
// strictly newer than it.
func (c *Client) ListActivities(ctx context.Context, after time.Time, page int) ([]SummaryActivity, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	if !after.IsZero() {
		q.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	var out []SummaryActivity
	if err := c.get(ctx, "/athlete/activities", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivityStreams fetches the full coordinate stream for one activity.
func (c *Client) ActivityStreams(ctx context.Context, id int64) (*StreamSet, error) {
	q := url.Values{}
	q.Set("keys", "latlng,altitude")
	q.Set("key_by_type", "true")

	var raw map[string]struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.get(ctx, fmt.Sprintf("/activities/%d/streams", id), q, &raw); err != nil {
		return nil, err
	}

	set := &StreamSet{}
	if s, ok := raw["latlng"]; ok {
		if err := json.Unmarshal(s.Data, &set.LatLng); err != nil {
			return nil, fmt.Errorf("decode latlng stream for %d: %w", id, err)
		}
	}
	if s, ok := raw["altitude"]; ok {
		if err := json.Unmarshal(s.Data, &set.Altitude); err != nil {
			return nil, fmt.Errorf("decode altitude stream for %d: %w", id, err)
		}
	}
	return set, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// a failed token refresh surfaces here, wrapped by the transport
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return &AuthError{Err: err}
		}
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, path)}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
