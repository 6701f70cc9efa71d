package track24http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BearBump/ClaimBox/internal/integrations/carrier"
	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

type Client struct {
	baseURL string
	apiKey  string
	domain  string
	httpc   *http.Client
}

func New(baseURL, apiKey, domain string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		domain:  domain,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type track24Resp struct {
	Status string `json:"status"`
	Data   struct {
		Events []struct {
			OperationDateTime        string `json:"operationDateTime"`
			OperationAttribute       string `json:"operationAttribute"`
			OperationType            string `json:"operationType"`
			OperationPlaceName       string `json:"operationPlaceName"`
			OperationPlacePostalCode string `json:"operationPlacePostalCode"`
			Source                   string `json:"source"`
		} `json:"events"`
	} `json:"data"`
}

func (c *Client) Track(ctx context.Context, carrierCode, trackingNumber string) (carrier.Result, error) {
	_ = carrierCode // Track24 detects the carrier from the code itself

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return carrier.Result{}, errors.Wrap(err, "parse base url")
	}
	u.Path = "/tracking.json.php"

	q := u.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("domain", c.domain)
	q.Set("code", trackingNumber)
	q.Set("pretty", "true")
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
		return carrier.Result{}, fmt.Errorf("track24 http %d", resp.StatusCode)
	}

	var r track24Resp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return carrier.Result{}, errors.Wrap(err, "decode")
	}
	if r.Status != "ok" {
		return carrier.Result{}, fmt.Errorf("track24 status=%s", r.Status)
	}

	// The parcel counts as delivered once the last operation reads like a hand-over.
	now := time.Now().UTC()
	status := models.CarrierStatusInTransit
	statusRaw := ""
	var events []*models.TrackingEvent

	for _, e := range r.Data.Events {
		msg := e.OperationAttribute
		loc := e.OperationPlaceName
		statusRaw = msg

		evTime := now
		// e.g. "02.07.2014 19:16:00"
		if e.OperationDateTime != "" {
			if t, err := time.ParseInLocation("02.01.2006 15:04:05", e.OperationDateTime, time.UTC); err == nil {
				evTime = t.UTC()
			}
		}

		events = append(events, &models.TrackingEvent{
			Status:    status,
			StatusRaw: msg,
			EventTime: evTime,
			Location:  strPtr(loc),
			Message:   strPtr(msg),
		})
	}

	switch {
	case len(r.Data.Events) == 0:
		// registered but not handed to the carrier yet
		status = models.CarrierStatusUnknown
	case containsDeliveredHint(r.Data.Events[len(r.Data.Events)-1].OperationAttribute):
		status = models.CarrierStatusDelivered
	}

	return carrier.Result{
		Status:    status,
		StatusRaw: statusRaw,
		StatusAt:  &now,
		Events:    events,
	}, nil
}

var deliveredHints = []string{"delivered", "returned to sender", "배송완료", "вруч"}

func containsDeliveredHint(s string) bool {
	low := strings.ToLower(s)
	for _, hint := range deliveredHints {
		if strings.Contains(low, hint) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}


