package httporders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BearBump/ClaimBox/internal/integrations/orders"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Client reads order lines from the order service over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type orderLineResp struct {
	OrderID     uint64          `json:"orderId"`
	OrderItemID uint64          `json:"orderItemId"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Status      string          `json:"status"`
}

func (c *Client) GetOrderLine(ctx context.Context, orderID, orderItemID uint64) (orders.OrderLine, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return orders.OrderLine{}, errors.Wrap(err, "parse base url")
	}
	u = u.JoinPath("api", "v1", "orders", strconv.FormatUint(orderID, 10), "items", strconv.FormatUint(orderItemID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return orders.OrderLine{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return orders.OrderLine{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return orders.OrderLine{}, orders.ErrOrderLineNotFound
	}
	if resp.StatusCode/100 != 2 {
		return orders.OrderLine{}, fmt.Errorf("orders http %d", resp.StatusCode)
	}

	var r orderLineResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return orders.OrderLine{}, errors.Wrap(err, "decode")
	}
	if r.OrderID != orderID || r.OrderItemID != orderItemID {
		return orders.OrderLine{}, fmt.Errorf("orders returned line %d/%d for %d/%d", r.OrderID, r.OrderItemID, orderID, orderItemID)
	}

	return orders.OrderLine{
		OrderID:     r.OrderID,
		OrderItemID: r.OrderItemID,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Status:      r.Status,
	}, nil
}
