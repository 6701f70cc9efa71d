package fake

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/BearBump/ClaimBox/internal/integrations/carrier"
	"github.com/BearBump/ClaimBox/internal/models"
)

// Client is a deterministic stand-in carrier for local runs: every third
// return parcel is reported delivered, the rest are in transit.
type Client struct {
	now func() time.Time
}

func New() *Client { return &Client{now: time.Now} }

func (f *Client) Track(ctx context.Context, carrierCode, trackingNumber string) (carrier.Result, error) {
	if err := ctx.Err(); err != nil {
		return carrier.Result{}, err
	}
	now := f.now().UTC()

	status := models.CarrierStatusInTransit
	if Delivered(carrierCode, trackingNumber) {
		status = models.CarrierStatusDelivered
	}

	ev := &models.TrackingEvent{
		Status:    status,
		StatusRaw: status,
		EventTime: now,
		Message:   ptr("fake carrier update"),
	}

	return carrier.Result{
		Status:    status,
		StatusRaw: status,
		StatusAt:  &now,
		Events:    []*models.TrackingEvent{ev},
	}, nil
}

// Delivered reports what the fake will answer for a parcel.
func Delivered(carrierCode, trackingNumber string) bool {
	h := fnv.New32a()
	_, _ = h.Write([]byte(carrierCode))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(trackingNumber))
	return h.Sum32()%3 == 0
}

func ptr(s string) *string { return &s }
