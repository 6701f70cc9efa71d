package emulatorv1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BearBump/ClaimBox/internal/integrations/carrier"
	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

// Client talks to the carrier emulator's v1 tracking API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type respEvent struct {
	Status    string          `json:"status"`
	StatusRaw string          `json:"status_raw"`
	EventTime time.Time       `json:"event_time"`
	Location  *string         `json:"location,omitempty"`
	Message   *string         `json:"message,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type respBody struct {
	Carrier     string      `json:"carrier"`
	TrackNumber string      `json:"track_number"`
	Status      string      `json:"status"`
	StatusRaw   string      `json:"status_raw"`
	StatusAt    *time.Time  `json:"status_at"`
	Events      []respEvent `json:"events"`
}

func (c *Client) Track(ctx context.Context, carrierCode, trackingNumber string) (carrier.Result, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return carrier.Result{}, errors.Wrap(err, "parse base url")
	}
	u.Path = fmt.Sprintf("/v1/tracking/%s/%s", url.PathEscape(carrierCode), url.PathEscape(trackingNumber))
	q := u.Query()
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return carrier.Result{}, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return carrier.Result{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return carrier.Result{}, carrier.ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		return carrier.Result{}, fmt.Errorf("carrier emulator http %d", resp.StatusCode)
	}

	var rb respBody
	if err := json.NewDecoder(resp.Body).Decode(&rb); err != nil {
		return carrier.Result{}, errors.Wrap(err, "decode")
	}

	evs := make([]*models.TrackingEvent, 0, len(rb.Events))
	for _, e := range rb.Events {
		var payload *string
		if len(e.Payload) > 0 {
			p := string(e.Payload)
			payload = &p
		}
		evs = append(evs, &models.TrackingEvent{
			Status:      carrier.Normalize(e.Status),
			StatusRaw:   e.StatusRaw,
			EventTime:   e.EventTime,
			Location:    e.Location,
			Message:     e.Message,
			PayloadJSON: payload,
		})
	}

	return carrier.Result{
		Status:    carrier.Normalize(rb.Status),
		StatusRaw: rb.StatusRaw,
		StatusAt:  rb.StatusAt,
		Events:    evs,
	}, nil
}
