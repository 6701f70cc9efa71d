package messages

import (
	"encoding/json"
	"time"
)

// ReturnShipmentUpdated is what the worker learned from the carrier about one
// return parcel.
type ReturnShipmentUpdated struct {
	ClaimID        uint64    `json:"claim_id"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number"`
	CheckedAt      time.Time `json:"checked_at"`

	// CarrierStatus is the normalized carrier status (IN_TRANSIT, DELIVERED, UNKNOWN).
	CarrierStatus string     `json:"carrier_status,omitempty"`
	StatusRaw     string     `json:"status_raw,omitempty"`
	StatusAt      *time.Time `json:"status_at,omitempty"`

	NextCheckAt time.Time `json:"next_check_at"`

	Events []TrackingEvent `json:"events,omitempty"`

	Error *string `json:"error,omitempty"`
}

type TrackingEvent struct {
	Status    string          `json:"status"`
	StatusRaw string          `json:"status_raw"`
	EventTime time.Time       `json:"event_time"`
	Location  *string         `json:"location,omitempty"`
	Message   *string         `json:"message,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
