package carrier

import (
	"context"
	"strings"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

// ErrRateLimited is returned when the carrier asks us to slow down.
var ErrRateLimited = errors.New("carrier rate limited")

// Result is the carrier's view of one return parcel.
type Result struct {
	// Status is normalized, see models.CarrierStatus*.
	Status    string
	StatusRaw string
	StatusAt  *time.Time
	Events    []*models.TrackingEvent
}

type Client interface {
	Track(ctx context.Context, carrierCode, trackingNumber string) (Result, error)
}

// Normalize maps a raw carrier status onto models.CarrierStatus*.
func Normalize(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DELIVERED", "RECEIVED", "RETURNED_TO_SENDER":
		return models.CarrierStatusDelivered
	case "PICKED_UP", "ACCEPTED", "IN_TRANSIT", "OUT_FOR_DELIVERY", "AT_HUB":
		return models.CarrierStatusInTransit
	default:
		return models.CarrierStatusUnknown
	}
}

// Router picks a client by carrier code and falls back to a default one.
type Router struct {
	byCarrier map[string]Client
	fallback  Client
}

func NewRouter(fallback Client) *Router {
	return &Router{byCarrier: map[string]Client{}, fallback: fallback}
}

func (r *Router) Register(carrierCode string, c Client) *Router {
	r.byCarrier[strings.ToUpper(carrierCode)] = c
	return r
}

func (r *Router) Track(ctx context.Context, carrierCode, trackingNumber string) (Result, error) {
	c, ok := r.byCarrier[strings.ToUpper(carrierCode)]
	if !ok {
		c = r.fallback
	}
	if c == nil {
		return Result{}, errors.Errorf("no carrier client for %q", carrierCode)
	}
	return c.Track(ctx, carrierCode, trackingNumber)
}
